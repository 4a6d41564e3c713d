package pdf

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// AFRelationship of the embedded invoice: the XML is an alternative
// representation of the visible PDF content (ZUGFeRD / Factur-X).
const afRelationshipAlternative = "Alternative"

// PDFCPUAttacher embeds files into existing PDFs using pdfcpu.
type PDFCPUAttacher struct {
	now func() time.Time
}

// NewPDFCPUAttacher builds the attacher.
func NewPDFCPUAttacher() *PDFCPUAttacher {
	api.DisableConfigDir()
	return &PDFCPUAttacher{now: time.Now}
}

// config is built per call because pdfcpu writes the running command into it.
func (a *PDFCPUAttacher) config() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.Cmd = model.ADDATTACHMENTS
	return conf
}

// Attach returns a copy of doc with content embedded under name. The embedded
// file stream carries mimeType as /Subtype, and the file spec is registered in
// the catalog /AF array with AFRelationship Alternative.
func (a *PDFCPUAttacher) Attach(ctx context.Context, doc []byte, name, mimeType string, content []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name = filepath.Base(name)
	conf := a.config()

	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(doc), conf)
	if err != nil {
		return nil, fmt.Errorf("pdf: attach %s: read: %w", name, err)
	}
	xt := pdfCtx.XRefTable
	if err := xt.LocateNameTree("EmbeddedFiles", true); err != nil {
		return nil, fmt.Errorf("pdf: attach %s: name tree: %w", name, err)
	}

	// ── Embedded file stream ────────────────────────────────────────────────
	sd, err := xt.NewStreamDictForBuf(content)
	if err != nil {
		return nil, fmt.Errorf("pdf: attach %s: stream: %w", name, err)
	}
	sd.InsertName("Type", "EmbeddedFile")
	if mimeType != "" {
		sd.InsertName("Subtype", mimeType)
	}
	params := types.NewDict()
	params.InsertInt("Size", len(content))
	params.Insert("ModDate", types.StringLiteral(types.DateString(a.now())))
	sd.Insert("Params", params)
	if err := sd.Encode(); err != nil {
		return nil, fmt.Errorf("pdf: attach %s: encode: %w", name, err)
	}
	streamRef, err := xt.IndRefForNewObject(*sd)
	if err != nil {
		return nil, fmt.Errorf("pdf: attach %s: %w", name, err)
	}

	// ── File specification ──────────────────────────────────────────────────
	spec, err := xt.NewFileSpecDict(name, name, "Rechnungsdaten (EN 16931)", *streamRef)
	if err != nil {
		return nil, fmt.Errorf("pdf: attach %s: file spec: %w", name, err)
	}
	spec.InsertName("AFRelationship", afRelationshipAlternative)
	specRef, err := xt.IndRefForNewObject(spec)
	if err != nil {
		return nil, fmt.Errorf("pdf: attach %s: %w", name, err)
	}

	if err := xt.Names["EmbeddedFiles"].Add(xt, name, *specRef, model.NameMap{name: []types.Dict{spec}}, []string{"F", "UF"}); err != nil {
		return nil, fmt.Errorf("pdf: attach %s: register: %w", name, err)
	}

	catalog, err := xt.Catalog()
	if err != nil {
		return nil, fmt.Errorf("pdf: attach %s: catalog: %w", name, err)
	}
	catalog.Update("AF", append(catalog.ArrayEntry("AF"), *specRef))

	var out bytes.Buffer
	if err := api.Write(pdfCtx, &out, conf); err != nil {
		return nil, fmt.Errorf("pdf: attach %s: write: %w", name, err)
	}
	return out.Bytes(), nil
}
