// Package render turns markdown completions into displayable output.
//
// HTML renders markdown with goldmark (GitHub-flavoured extensions) and
// sanitizes the result with bluemonday's UGC policy, so model output can be
// embedded in a web page. Terminal renders markdown for a TTY with glamour
// and falls back to the raw text when styling is unavailable.
package render
