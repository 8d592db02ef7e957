/*
Package som implements a tree-walking interpreter for a small pure-object
language in the SOM family (Simple Object Machine): everything, including
integers, strings, booleans, and blocks, is an object, and all computation
happens by sending messages to objects.

There is no bytecode. Parsed method bodies are ASTs (package ast) that the
evaluator walks directly against an explicit object heap of fixed-width,
tagged records addressed by opaque Address values rather than Go pointers,
so that the optional mark-and-compact collector can relocate objects without
updating scattered Go-level references.

Hello World

	Hello = Object (
		run = ( 'Hello, world!' println )
	)

Passed to VM.RunMain with the selector "run", this class is instantiated
and sent run, which prints the greeting and a newline.

Object Model

Programs are class definitions. A class has a superclass (eventually
Object), a list of instance variable names, and a method dictionary mapping
selectors to methods. Every class is itself an instance of a metaclass, whose
superclass chain mirrors the class's own, terminating in Class and Object
exactly as the bootstrap sequence in the class and bootstrap source files
describes.

Sending a message resolves the receiver's class, walks the superclass chain
for a matching selector, and either calls a Go primitive directly or
allocates a new method Context and evaluates the method's AST body against
it. Blocks are closures: evaluating a block literal captures the enclosing
Context as the block's outer context, so free variable references inside the
block resolve through that chain rather than through the dynamic receiver.

A block's non-local return (^ inside the block body) unwinds the Go call
stack up to the block's home method activation; see eval.go.

Embedding

Use NewVM to build and bootstrap an interpreter, then VM.DoString or
VM.RunMain to run source text (the latter also sends a named message to a
new instance of the last class defined, the shape cmd/som uses to run a
program's entry point). VM exposes the Heap and Globals table so a caller
can install additional primitives or pre-seed global objects before running
a program.
*/
package som

// Version is the interpreter version string, reported by the command-line
// launcher's -version flag.
const Version = "1.0.0"
