// Package pathutils resolves the root directories a run scans.
package pathutils
