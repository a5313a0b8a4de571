package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
	"github.com/fivetwenty-io/ghostctl/internal/logging"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// Export scopes.
const (
	ExportAll     = "all"
	ExportPosts   = "posts"
	ExportMembers = "members"
	ExportContent = "content"
)

// ErrUnknownExportScope is returned for a scope other than the Export* constants.
var ErrUnknownExportScope = errors.New("unknown export scope")

// ExportMeta describes an export document.
type ExportMeta struct {
	ExportedOn   time.Time `json:"exported_on"             yaml:"exported_on"`
	Version      string    `json:"version"                 yaml:"version"`
	GhostVersion string    `json:"ghost_version,omitempty" yaml:"ghost_version,omitempty"`
	Scope        string    `json:"scope"                   yaml:"scope"`
	Warnings     []string  `json:"warnings,omitempty"      yaml:"warnings,omitempty"`
}

// ExportDocument is the file written by the export command.
type ExportDocument struct {
	Meta ExportMeta             `json:"meta" yaml:"meta"`
	Data map[string]interface{} `json:"data" yaml:"data"`
}

// Counts returns the number of exported records per collection.
func (d *ExportDocument) Counts() map[string]int {
	counts := make(map[string]int, len(d.Data))

	for name, records := range d.Data {
		switch typed := records.(type) {
		case []ghost.Post:
			counts[name] = len(typed)
		case []ghost.Tag:
			counts[name] = len(typed)
		case []ghost.Member:
			counts[name] = len(typed)
		case []ghost.User:
			counts[name] = len(typed)
		case []ghost.Tier:
			counts[name] = len(typed)
		case []ghost.Newsletter:
			counts[name] = len(typed)
		case []ghost.Offer:
			counts[name] = len(typed)
		case []ghost.Setting:
			counts[name] = len(typed)
		}
	}

	return counts
}

// Exporter collects whole collections through the paginator.
type Exporter struct {
	client   ghost.Client
	pageSize int
	version  string
	now      func() time.Time
}

// NewExporter creates an exporter. version is recorded in the document meta.
func NewExporter(client ghost.Client, version string) *Exporter {
	return &Exporter{
		client:   client,
		pageSize: constants.ExportPageSize,
		version:  version,
		now:      time.Now,
	}
}

// SetPageSize overrides the page size used for every collection.
func (e *Exporter) SetPageSize(pageSize int) {
	if pageSize > 0 {
		e.pageSize = min(pageSize, constants.MaxPageSize)
	}
}

// Export collects the collections of scope.
func (e *Exporter) Export(ctx context.Context, scope string) (*ExportDocument, error) {
	collections, ok := e.collections(scope)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExportScope, scope)
	}

	doc := &ExportDocument{
		Meta: ExportMeta{
			ExportedOn: e.now().UTC(),
			Version:    e.version,
			Scope:      scope,
		},
		Data: make(map[string]interface{}, len(collections)),
	}

	site, err := e.client.Site().Get(ctx)
	if err != nil {
		doc.Meta.Warnings = append(doc.Meta.Warnings, "ghost version unavailable: "+logging.RedactString(err.Error()))
	} else {
		doc.Meta.GhostVersion = site.Version
	}

	for _, name := range collections {
		records, err := e.collect(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("exporting %s: %w", name, err)
		}

		doc.Data[name] = records
	}

	return doc, nil
}

func (e *Exporter) collections(scope string) ([]string, bool) {
	switch scope {
	case ExportPosts:
		return []string{ghost.ResourcePosts}, true
	case ExportMembers:
		return []string{ghost.ResourceMembers}, true
	case ExportContent:
		return []string{ghost.ResourcePosts, ghost.ResourcePages, ghost.ResourceTags}, true
	case ExportAll, "":
		return []string{
			ghost.ResourcePosts, ghost.ResourcePages, ghost.ResourceTags, ghost.ResourceMembers,
			ghost.ResourceUsers, ghost.ResourceTiers, ghost.ResourceNewsletters, ghost.ResourceOffers,
			ghost.ResourceSettings,
		}, true
	default:
		return nil, false
	}
}

func (e *Exporter) collect(ctx context.Context, name string) (interface{}, error) {
	params := ghost.NewQueryParams().WithLimit(e.pageSize)

	switch name {
	case ghost.ResourcePosts:
		return e.client.Posts().ListAll(ctx, params.WithFormats("html", "lexical")).All()
	case ghost.ResourcePages:
		return e.client.Pages().ListAll(ctx, params.WithFormats("html", "lexical")).All()
	case ghost.ResourceTags:
		return e.client.Tags().ListAll(ctx, params).All()
	case ghost.ResourceMembers:
		return e.client.Members().ListAll(ctx, params).All()
	case ghost.ResourceUsers:
		return e.client.Users().ListAll(ctx, params).All()
	case ghost.ResourceTiers:
		return e.client.Tiers().ListAll(ctx, params).All()
	case ghost.ResourceNewsletters:
		return e.client.Newsletters().ListAll(ctx, params).All()
	case ghost.ResourceOffers:
		return e.client.Offers().ListAll(ctx, params).All()
	case ghost.ResourceSettings:
		return e.client.Settings().Get(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExportScope, name)
	}
}

// WriteExport encodes doc as indented JSON, gzip-compressed when compress is set.
func WriteExport(w io.Writer, doc *ExportDocument, compress bool) error {
	if !compress {
		return encodeExport(w, doc)
	}

	zw, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("creating gzip writer: %w", err)
	}

	zw.Name = "ghost-export.json"
	zw.ModTime = doc.Meta.ExportedOn

	err = encodeExport(zw, doc)
	if err != nil {
		_ = zw.Close()

		return err
	}

	err = zw.Close()
	if err != nil {
		return fmt.Errorf("closing gzip writer: %w", err)
	}

	return nil
}

// ReadExport decodes a document written by WriteExport, detecting gzip by its magic bytes.
func ReadExport(r io.Reader) (*ExportMeta, map[string]json.RawMessage, error) {
	buffered, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("reading export: %w", err)
	}

	if len(buffered) > 2 && buffered[0] == 0x1f && buffered[1] == 0x8b {
		zr, err := gzip.NewReader(bytes.NewReader(buffered))
		if err != nil {
			return nil, nil, fmt.Errorf("opening gzip export: %w", err)
		}

		defer func() { _ = zr.Close() }()

		buffered, err = io.ReadAll(zr)
		if err != nil {
			return nil, nil, fmt.Errorf("decompressing export: %w", err)
		}
	}

	var raw struct {
		Meta ExportMeta                 `json:"meta"`
		Data map[string]json.RawMessage `json:"data"`
	}

	err = json.Unmarshal(buffered, &raw)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing export: %w", err)
	}

	return &raw.Meta, raw.Data, nil
}

func encodeExport(w io.Writer, doc *ExportDocument) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	err := encoder.Encode(doc)
	if err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}

	return nil
}
