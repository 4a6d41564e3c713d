package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/invoicing"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/cli"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/infrastructure/xrechnung"
	"github.com/DennisBaerXY/kostenlose-erechnung/pkg/logger"
)

type stubRenderer struct{}

func (stubRenderer) Render(context.Context, *invoice.Invoice, string) ([]byte, error) {
	return []byte("%PDF-1.7 stub"), nil
}

type stubAttacher struct{}

func (stubAttacher) Attach(_ context.Context, doc []byte, _, _ string, _ []byte) ([]byte, error) {
	return doc, nil
}

const invoiceJSON = `{
  "sender": {"name": "Muster GmbH", "street": "Hauptstraße 1", "zip": "10115", "city": "Berlin", "taxId": "12/345/67890"},
  "recipient": {"name": "Kunde AG", "street": "Nebenweg 2", "zip": "80331", "city": "München"},
  "metadata": {"invoiceNumber": "RE-9", "date": "2024-03-15"},
  "items": [{"description": "Beratung", "quantity": "2", "unit": "Stunden", "unitPrice": "100", "taxRate": "19"}]
}`

func newApp() *cli.App {
	log := logger.NewWithWriter(logger.Config{Env: "test", Level: "error"}, io.Discard)
	return &cli.App{
		Generate: invoicing.NewGenerateUseCase(
			xrechnung.NewCIIBuilder(), xrechnung.NewUBLBuilder(), stubRenderer{}, stubAttacher{},
			invoicing.Defaults{Template: "classic"}, log.Zerolog(),
		),
		Import: invoicing.NewImportUseCase(xrechnung.NewParser(), log.Zerolog()),
		Log:    log,
		Now:    func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) },
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := cli.NewRootCommand(newApp())
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestGenerate_ToFile(t *testing.T) {
	in := writeFile(t, "rechnung.json", invoiceJSON)
	out := filepath.Join(t.TempDir(), "out.xml")

	_, err := run(t, "generate", in, "--format", "CII", "-o", out)

	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<ram:ID>RE-9</ram:ID>")
}

func TestGenerate_Stdout(t *testing.T) {
	in := writeFile(t, "rechnung.json", invoiceJSON)

	out, err := run(t, "generate", in, "-f", "ubl", "-o", "-")

	require.NoError(t, err)
	assert.Contains(t, out, xrechnung.NsUbl)
}

func TestGenerate_InvalidInvoice(t *testing.T) {
	in := writeFile(t, "leer.json", `{"items": []}`)

	_, err := run(t, "generate", in, "-o", "-")

	assert.ErrorIs(t, err, invoice.ErrInvalidInvoice)
}

func TestParse_RoundTrip(t *testing.T) {
	in := writeFile(t, "rechnung.json", invoiceJSON)
	xmlOut, err := run(t, "generate", in, "-f", "CII", "-o", "-")
	require.NoError(t, err)
	xmlFile := writeFile(t, "rechnung.xml", xmlOut)

	out, err := run(t, "parse", xmlFile)

	require.NoError(t, err)
	var res struct {
		Syntax     string          `json:"syntax"`
		Consistent bool            `json:"consistent"`
		Invoice    invoice.Invoice `json:"invoice"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "CII", res.Syntax)
	assert.True(t, res.Consistent)
	assert.Equal(t, "Kunde AG", res.Invoice.Recipient.Name)
}

func TestValidate_JSON(t *testing.T) {
	in := writeFile(t, "rechnung.json", invoiceJSON)

	out, err := run(t, "validate", in)

	require.NoError(t, err)
	assert.Contains(t, out, `"isValid": true`)
}

func TestValidate_StepFails(t *testing.T) {
	in := writeFile(t, "rechnung.json", `{"sender": {"name": "X"}}`)

	out, err := run(t, "validate", in, "--step", "1")

	require.Error(t, err)
	assert.Contains(t, out, "Straße ist erforderlich")
}

func TestValidate_BadStep(t *testing.T) {
	in := writeFile(t, "rechnung.json", invoiceJSON)

	_, err := run(t, "validate", in, "--step", "7")

	assert.Error(t, err)
}

func TestValidate_XMLStructure(t *testing.T) {
	in := writeFile(t, "fremd.xml", "<Order/>")

	out, err := run(t, "validate", in)

	require.Error(t, err)
	assert.Contains(t, out, "Root-Element")
}

func TestTotals(t *testing.T) {
	in := writeFile(t, "rechnung.json", invoiceJSON)

	out, err := run(t, "totals", in)

	require.NoError(t, err)
	var res struct {
		Rounded struct {
			Total string `json:"total"`
		} `json:"rounded"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "238", res.Rounded.Total)
}

func TestDraft(t *testing.T) {
	out, err := run(t, "draft")

	require.NoError(t, err)
	var inv invoice.Invoice
	require.NoError(t, json.Unmarshal([]byte(out), &inv))
	assert.Equal(t, "2024-05-06", inv.Metadata.Date)
	assert.True(t, strings.HasPrefix(inv.Metadata.InvoiceNumber, "240506-"))
}
