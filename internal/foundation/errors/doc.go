// Package errors provides the classified error primitives used across pluginlit.
//
// Every failure the build core can raise is one of a small set of kinds:
// configuration, argument (validation), merge conflict, structural, hook
// failure, build, filesystem, and storage. A ClassifiedError carries that
// category together with severity and structured context, and survives
// wrapping with fmt.Errorf("...: %w", err).
//
// Example usage:
//
//	err := errors.MergeConflictError("attribute values differ").
//		WithContext("attribute", "android:name").
//		WithContext("element", outer).
//		Build()
package errors
