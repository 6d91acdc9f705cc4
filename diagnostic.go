package errtax

// Diagnostic is the contract every generated variant satisfies. The
// interface a taxonomy compiles to embeds error and declares the same
// methods, so values of any generated taxonomy can be passed here
// without adapters.
type Diagnostic interface {
	error

	Kind() Kind

	// Number is the digit string assembled from the taxonomy tree,
	// Code the same string with the kind letter in front.
	Number() string
	Code() string

	PrimarySpan() Span
	PrimaryMessage() string
	PrimaryLabel() string
}
