package logging

import (
	"context"
	"log"
)

func init() {
	log.SetFlags(0)
}

// Logf logs a formatted message. The context is accepted so call sites can
// carry contextual information without having to thread a logger around.
func Logf(
	ctx context.Context,
	format string,
	v ...interface{},
) {
	log.Printf(format, v...)
}
