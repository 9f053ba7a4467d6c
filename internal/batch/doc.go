// Package batch drives pipeline invocations for lists of heterogeneous
// files under bounded concurrency.
//
// Images and videos draw from separate worker pools so a burst of uploads
// cannot stack unbounded ffmpeg processes. Results come back in input order
// with exactly one entry per input; a file's failure becomes an error entry
// at its index and never cancels sibling jobs. Each submitted file is also
// observable individually through its Job handle.
package batch
