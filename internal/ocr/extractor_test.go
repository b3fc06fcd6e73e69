package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/amara-nwosu/gene-report-reader/internal/common"
)

// stubRunner fakes the external binaries. Output is keyed by binary name,
// with "tesseract-tsv" selecting the TSV invocation.
type stubRunner struct {
	out   map[string]string
	errs  map[string]error
	calls [][]string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, append([]string{name}, args...))

	key := name
	if name == "tesseract" && len(args) > 0 && args[len(args)-1] == "tsv" {
		key = "tesseract-tsv"
	}
	if err := s.errs[key]; err != nil {
		return nil, []byte("boom"), err
	}
	if name == "pdftoppm" {
		// pdftoppm writes page images next to the given prefix.
		prefix := args[len(args)-1]
		for i := 1; i <= 2; i++ {
			if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), []byte("png"), 0o644); err != nil {
				return nil, nil, err
			}
		}
	}
	return []byte(s.out[key]), nil, nil
}

func (s *stubRunner) argsFor(bin string) []string {
	for _, c := range s.calls {
		if c[0] == bin {
			return c[1:]
		}
	}
	return nil
}

func newTestExtractor(cfg Config, r Runner) *Extractor {
	return NewExtractor(cfg, nil).WithRunner(r)
}

func TestExtract_Image(t *testing.T) {
	r := &stubRunner{out: map[string]string{
		"tesseract": "Patient Name:  Jane   Doe\r\n\n\n\nDOB: 1980-01-01\n",
	}}
	e := newTestExtractor(Config{}, r)

	res, err := e.Extract(context.Background(), "/scans/report.png")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Method != "image-ocr" || res.SourceType != "IMAGE" || res.Pages != 1 {
		t.Errorf("unexpected result meta: %+v", res)
	}
	if want := "Patient Name: Jane Doe\n\nDOB: 1980-01-01"; res.Text != want {
		t.Errorf("normalized text:\n%q\nwant:\n%q", res.Text, want)
	}
	args := r.argsFor("tesseract")
	if !slices.Contains(args, "-l") || !slices.Contains(args, "eng") {
		t.Errorf("tesseract args missing language: %v", args)
	}
	if res.Confidence <= 0 || res.Confidence > 1 {
		t.Errorf("confidence out of range: %f", res.Confidence)
	}
}

func TestExtract_ImageTSVConfidence(t *testing.T) {
	// The last word is numeric: the mean must come from the conf column,
	// never from word text that happens to parse as a number.
	tsv := strings.Join([]string{
		"level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext",
		"5\t1\t1\t1\t1\t1\t10\t10\t50\t12\t90\tPatient",
		"5\t1\t1\t1\t1\t2\t70\t10\t50\t12\t70\tName",
		"5\t1\t1\t1\t1\t3\t70\t10\t50\t12\t-1\t",
		"5\t1\t1\t1\t1\t4\t130\t10\t50\t12\t80\t1980",
	}, "\n")
	r := &stubRunner{out: map[string]string{
		"tesseract":     "Patient Name: Jane",
		"tesseract-tsv": tsv,
	}}
	e := newTestExtractor(Config{EnableTSVConfidence: true}, r)

	res, err := e.Extract(context.Background(), "scan.jpg")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	// Engine mean is (90+70+80)/3 = 80% and dominates the blend.
	if res.Confidence < 0.6 || res.Confidence > 0.95 {
		t.Errorf("blended confidence = %f, want around 0.8", res.Confidence)
	}
}

func TestExtract_TesseractFailure(t *testing.T) {
	r := &stubRunner{errs: map[string]error{"tesseract": errors.New("exit status 1")}}
	e := newTestExtractor(Config{}, r)

	_, err := e.Extract(context.Background(), "scan.png")
	if err == nil {
		t.Fatal("expected error from failed engine")
	}
	if !strings.Contains(err.Error(), "tesseract") {
		t.Errorf("error should name the engine: %v", err)
	}
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	e := newTestExtractor(Config{}, &stubRunner{})
	_, err := e.Extract(context.Background(), "notes.docx")
	if !errors.Is(err, common.ErrUnsupportedFormat) {
		t.Fatalf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestExtract_PDFWithTextLayer(t *testing.T) {
	text := "Patient Name: Jane Doe\nGene: BRCA1\nClassification: Pathogenic\n\fReport Date: 2024-05-01\n"
	r := &stubRunner{out: map[string]string{"pdftotext": text}}
	e := newTestExtractor(Config{}, r)

	res, err := e.Extract(context.Background(), "report.pdf")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Method != "pdf-text" || res.SourceType != "PDF" {
		t.Errorf("unexpected result meta: %+v", res)
	}
	if res.Pages != 2 {
		t.Errorf("pages = %d, want 2 (form feed separated)", res.Pages)
	}
	if r.argsFor("pdftoppm") != nil {
		t.Error("rasterization must be skipped when the text layer is usable")
	}
}

func TestExtract_ScannedPDFFallsBackToOCR(t *testing.T) {
	r := &stubRunner{out: map[string]string{
		"pdftotext": " \n",
		"tesseract": "Patient Name: Jane Doe",
	}}
	e := newTestExtractor(Config{}, r)

	res, err := e.Extract(context.Background(), "scan.pdf")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Method != "pdf-ocr" {
		t.Errorf("method = %q, want pdf-ocr", res.Method)
	}
	if res.Pages != 2 {
		t.Errorf("pages = %d, want 2 rendered pages", res.Pages)
	}
	if !strings.Contains(res.Text, "\f") {
		t.Errorf("page break marker missing:\n%q", res.Text)
	}
}

func TestExtract_PSMAndTessdataArgs(t *testing.T) {
	r := &stubRunner{out: map[string]string{"tesseract": "x"}}
	e := newTestExtractor(Config{PSM: 6, TessdataDir: "/opt/tessdata"}, r)

	if _, err := e.Extract(context.Background(), "scan.png"); err != nil {
		t.Fatalf("extract: %v", err)
	}
	args := r.argsFor("tesseract")
	for _, want := range []string{"--psm", "6", "--tessdata-dir", "/opt/tessdata"} {
		if !slices.Contains(args, want) {
			t.Errorf("args missing %q: %v", want, args)
		}
	}
}
