// Package translation provides the gateway that turns chat text into
// English. Every failure is reported in the returned result; callers never
// see a Go error or a panic from this package.
package translation
