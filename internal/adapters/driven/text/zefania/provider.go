// Package zefania implements a primary text provider over a local Zefania
// XML Bible (XMLBIBLE/BIBLEBOOK/CHAPTER/VERS).
package zefania

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/antchfx/xmlquery"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.PrimaryTextProvider = (*Provider)(nil)

const providerName = "zefania"

// Provider reads chapters from a Zefania XML file. The file is parsed once,
// on first use.
type Provider struct {
	path string

	once    sync.Once
	root    *xmlquery.Node
	loadErr error
}

// New creates a provider for the file at path.
func New(path string) *Provider {
	return &Provider{path: path}
}

// NewFromBytes creates a provider over an in-memory document.
func NewFromBytes(data []byte) (*Provider, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing zefania xml: %w", err)
	}
	p := &Provider{root: root}
	p.once.Do(func() {})
	return p, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return providerName }

// FetchChapter returns the verses of a chapter. address is the book number
// (the BIBLEBOOK bnumber attribute).
func (p *Provider) FetchChapter(ctx context.Context, address string, chapter int) ([]domain.SourceVerse, error) {
	if err := ctx.Err(); err != nil {
		return nil, p.fail(err)
	}
	book, err := strconv.Atoi(address)
	if err != nil || book < 1 || chapter < 1 {
		return nil, p.fail(fmt.Errorf("%w: address %q chapter %d", domain.ErrInvalidInput, address, chapter))
	}

	p.once.Do(p.load)
	if p.loadErr != nil {
		return nil, p.fail(p.loadErr)
	}

	expr := fmt.Sprintf("//BIBLEBOOK[@bnumber='%d']/CHAPTER[@cnumber='%d']/VERS", book, chapter)
	nodes, err := xmlquery.QueryAll(p.root, expr)
	if err != nil {
		return nil, p.fail(fmt.Errorf("query %s: %w", expr, err))
	}
	if len(nodes) == 0 {
		return nil, p.fail(domain.ErrNotFound)
	}

	verses := make([]domain.SourceVerse, 0, len(nodes))
	for _, n := range nodes {
		num, err := strconv.Atoi(strings.TrimSpace(n.SelectAttr("vnumber")))
		if err != nil {
			return nil, p.fail(fmt.Errorf("%w: verse number %q", domain.ErrMalformed, n.SelectAttr("vnumber")))
		}
		verses = append(verses, domain.SourceVerse{Number: num, Text: n.InnerText()})
	}
	return verses, nil
}

func (p *Provider) load() {
	f, err := os.Open(p.path)
	if err != nil {
		p.loadErr = fmt.Errorf("opening %s: %w", p.path, err)
		return
	}
	defer f.Close()

	root, err := xmlquery.Parse(f)
	if err != nil {
		p.loadErr = fmt.Errorf("parsing %s: %w", p.path, err)
		return
	}
	p.root = root
}

func (p *Provider) fail(err error) error {
	return domain.NewProviderError(providerName, "fetch", err)
}
