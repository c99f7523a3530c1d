// Package logtail reads the end of the shell's log file and splits its lines
// for display.
//
// # Reading
//
// Read keeps a ring of maxLines strings and scans the file once, so memory is
// bounded by the number of lines requested rather than the file size. A file
// that does not exist yet reads as empty; other I/O errors are wrapped.
//
//	lines, err := logtail.Read(cfg.LogPath, 200)
//
// # Parsing
//
// The logger writes logfmt (time=... level=INFO prefix=deskshell msg="..."
// key=value). Parse returns the well-known keys as fields of Entry and keeps
// the rest in order. Anything that does not tokenize as logfmt becomes an
// Entry whose Message is the trimmed line, so callers never need an error
// path.
package logtail
