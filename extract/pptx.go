package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// PPTX extracts text runs from PowerPoint decks. Each slide becomes one page;
// title placeholders get heading-scale sizes so slide titles surface as
// headings.
type PPTX struct {
	MaxPages int
}

func (e *PPTX) Formats() []string { return []string{"pptx"} }

func (e *PPTX) Extract(ctx context.Context, path string) (*Document, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening pptx: %w", err)
	}
	defer r.Close()

	// Collect slide files (ppt/slides/slide1.xml, slide2.xml, ...).
	slideFiles := make(map[int]*zip.File)
	for _, f := range r.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			if num := slideNumber(f.Name); num > 0 {
				slideFiles[num] = f
			}
		}
	}

	nums := make([]int, 0, len(slideFiles))
	for n := range slideFiles {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	if e.MaxPages > 0 && len(nums) > e.MaxPages {
		nums = nums[:e.MaxPages]
	}

	doc := &Document{Path: path, Name: filepath.Base(path), Pages: len(nums)}

	var b runBuilder
	for _, num := range nums {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rc, err := slideFiles[num].Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}

		var slide pptxSlide
		if err := xml.Unmarshal(data, &slide); err != nil {
			continue
		}

		for _, sp := range slide.CSld.SpTree.SPs {
			if sp.TxBody == nil {
				continue
			}
			size, bold := SizeBody, false
			if sp.isTitle() {
				size, bold = SizeH1, true
			}
			for _, para := range sp.TxBody.Paras {
				var line strings.Builder
				for _, run := range para.Runs {
					line.WriteString(run.Text)
				}
				b.add(num, size, bold, true, line.String())
			}
		}
	}
	doc.Runs = b.runs

	return doc, nil
}

// pptxSlide is the minimal slide XML shape: shapes in the shape tree, each
// with an optional placeholder kind and a text body of a:p paragraphs.
type pptxSlide struct {
	CSld struct {
		SpTree struct {
			SPs []pptxSP `xml:"sp"`
		} `xml:"spTree"`
	} `xml:"cSld"`
}

type pptxSP struct {
	NvSpPr *struct {
		NvPr struct {
			Ph *struct {
				Type string `xml:"type,attr"`
			} `xml:"ph"`
		} `xml:"nvPr"`
	} `xml:"nvSpPr"`
	TxBody *pptxTxBody `xml:"txBody"`
}

func (sp pptxSP) isTitle() bool {
	if sp.NvSpPr == nil || sp.NvSpPr.NvPr.Ph == nil {
		return false
	}
	switch sp.NvSpPr.NvPr.Ph.Type {
	case "title", "ctrTitle":
		return true
	}
	return false
}

type pptxTxBody struct {
	Paras []pptxPara `xml:"p"`
}

type pptxPara struct {
	Runs []pptxRun `xml:"r"`
}

type pptxRun struct {
	Text string `xml:"t"`
}

func slideNumber(name string) int {
	name = strings.TrimPrefix(name, "ppt/slides/slide")
	name = strings.TrimSuffix(name, ".xml")
	var num int
	fmt.Sscanf(name, "%d", &num)
	return num
}
