// Package workspace manages the scratch directory of a single build.
package workspace
