package main

import (
	"fmt"
	"os"

	"github.com/aqua777/krait"
)

func main() {
	infoCmd := krait.New("info", "Show archive summary", "Print an archive's document count, taggers and codes.").
		WithBoolP(KeyVerbose, "Log corrupt-document skips", "verbose", "v", "ARRIBA_VERBOSE", false).
		WithExactArgs(1).
		WithRun(runInfo)

	docsCmd := krait.New("docs", "List documents", "List every document in an archive with its index and text length.").
		WithBoolP(KeyVerbose, "Log corrupt-document skips", "verbose", "v", "ARRIBA_VERBOSE", false).
		WithExactArgs(1).
		WithRun(runDocs)

	catCmd := krait.New("cat", "Print a document's tags", "Print one document's text and the tags produced under a resolved tagger view.").
		WithBoolP(KeyVerbose, "Log corrupt-document skips", "verbose", "v", "ARRIBA_VERBOSE", false).
		WithIntP(KeyDoc, "Document index to print", "doc", "d", "ARRIBA_DOC", 0).
		WithStringP(KeySelect, `JSON tagger selector, e.g. {"library":{"name":"spacy"}}`, "select", "s", "ARRIBA_SELECT", "").
		WithStringP(KeyTag, "Tag name to print (default: every tag in the resolved view)", "tag", "t", "ARRIBA_TAG", "").
		WithExactArgs(1).
		WithRun(runCat)

	exportCmd := krait.New("export", "Export a document as bahia JSON", "Export one document to the bahia JSON interchange format.").
		WithBoolP(KeyVerbose, "Log corrupt-document skips", "verbose", "v", "ARRIBA_VERBOSE", false).
		WithIntP(KeyDoc, "Document index to export", "doc", "d", "ARRIBA_DOC", 0).
		WithExactArgs(1).
		WithRun(runExport)

	ingestCmd := krait.New("ingest", "Ingest a text or PDF file", "Tokenize a plain text or PDF file with the built-in tiktoken adapter and write the result as a new single-document archive.").
		WithBoolP(KeyPDF, "Treat the input file as a PDF", "pdf", "p", "ARRIBA_PDF", false).
		WithStringP(KeyEncoding, "tiktoken encoding name (default cl100k_base)", "encoding", "e", "ARRIBA_ENCODING", "").
		WithStringP(KeyExternal, "external_key to record in the document's metadata", "external", "x", "ARRIBA_EXTERNAL", "").
		WithExactArgs(2).
		WithRun(runIngest)

	app := krait.App(Arriba, "Arriba archive inspector", "A command-line tool for inspecting arriba tagging archives.").
		WithCommand(infoCmd).
		WithCommand(docsCmd).
		WithCommand(catCmd).
		WithCommand(exportCmd).
		WithCommand(ingestCmd).
		WithRun(func(args []string) error {
			fmt.Println("arriba - use 'arriba --help' to see available commands")
			return nil
		})

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
