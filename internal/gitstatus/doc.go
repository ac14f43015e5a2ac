// Package gitstatus implements read-only status providers for git repositories.
//
// CLIProvider shells out to the git binary through execshell and parses porcelain
// output. LibraryProvider reads the repository in-process with go-git and needs no
// git binary. Both report dirty state for tracked changes only; untracked files are
// reported separately.
package gitstatus
