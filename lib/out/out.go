package out

import (
	"fmt"

	"github.com/fatih/color"
)

var bold *color.Color
var yellow *color.Color
var red *color.Color
var green *color.Color

func init() {
	bold = color.New(color.Bold)
	yellow = color.New(color.FgYellow)
	red = color.New(color.FgRed)
	green = color.New(color.FgGreen)
}

// Normf prints a normal message.
func Normf(format string, v ...interface{}) {
	fmt.Printf(format, v...)
}

// Boldf prints a bold message.
func Boldf(format string, v ...interface{}) {
	bold.PrintfFunc()(format, v...)
}

// Warnf prints a warning message.
func Warnf(format string, v ...interface{}) {
	yellow.PrintfFunc()(format, v...)
}

// Statf prints a status message.
func Statf(format string, v ...interface{}) {
	green.PrintfFunc()(format, v...)
}

// Errof prints an error message.
func Errof(format string, v ...interface{}) {
	red.PrintfFunc()(format, v...)
}
