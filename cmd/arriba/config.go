package main

const Arriba = "arriba"

// Config keys for krait
const (
	KeyVerbose  = "verbose"
	KeyDoc      = "doc"
	KeySelect   = "select"
	KeyTag      = "tag"
	KeyPDF      = "pdf"
	KeyEncoding = "encoding"
	KeyExternal = "external"
)
