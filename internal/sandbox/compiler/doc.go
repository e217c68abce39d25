// Package compiler turns a project snapshot into a browser import map plus
// style injections, one executable module entry per source file.
//
// Each file compiles independently: a broken file is recorded as a
// CompileError and the rest of the project still runs. Module code travels as
// data URLs so the assembled document needs no hosting step.
package compiler
