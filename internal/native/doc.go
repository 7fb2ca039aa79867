// Package native edits the platform projects a host exports: the Android
// Gradle project (manifest, wrapper, build script) and the Xcode project's
// Info.plist. Descriptor files are loaded into xmlmerge documents, merged
// with channel and plugin fragments, and written back in place.
package native
