// Package executor runs one HTTP request end-to-end and delivers exactly
// one typed outcome.
//
// The pipeline is transfer → validate → decode → deliver. The network
// transfer is delegated to a Session, the body conversion to a Decoder,
// and the terminal outcome is handed to a dispatch.Dispatcher so callers
// can pin delivery to a designated goroutine. Every failure leaving this
// package is one of three ClientError kinds: InvalidResponseError,
// DecodingError, or NetworkError.
package executor
