package crawl

import (
	"log/slog"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/goquery"
	"github.com/fwojciec/distill/xmlquery"
)

// Backend selects the selector language a schema is written in.
type Backend string

const (
	BackendCSS   Backend = "css"
	BackendXPath Backend = "xpath"
)

// NewExtractor parses schema JSON and returns an extractor for backend.
// An empty backend means CSS. A schema that does not parse or validate
// yields an extractor that always returns no records; the reason is
// logged at warn level. Only an unknown backend is an error.
func NewExtractor(schemaJSON []byte, backend Backend, logger *slog.Logger) (distill.Extractor, error) {
	if backend != BackendCSS && backend != BackendXPath && backend != "" {
		return nil, distill.Errorf(distill.EINVALID, "unknown extraction backend %q", backend)
	}
	if logger == nil {
		logger = discard
	}

	schema, err := distill.ParseSchema(schemaJSON)
	if err != nil {
		logger.Warn("schema rejected, extraction yields no records", "err", err)
	}
	if backend == BackendXPath {
		return xmlquery.NewXPathExtractor(schema), nil
	}
	return goquery.NewCSSExtractor(schema), nil
}
