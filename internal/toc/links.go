package toc

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// addLinks attaches one internal GoTo link annotation per TOC row to the
// final document. Link targets are the post-shift pages (body page + k).
func addLinks(finalPath string, links []link, k int) error {
	if len(links) == 0 {
		return nil
	}

	anns := make(map[int][]model.AnnotationRenderer, k)
	for _, l := range links {
		// Flip the hot area from top-left layout coordinates into PDF
		// user space (origin bottom-left).
		rect := types.NewRectangle(l.x, pageHeight-(l.y+l.h), l.x+l.w, pageHeight-l.y)
		dest := &model.Destination{Typ: model.DestFit, PageNr: l.target + k}
		ann := model.NewLinkAnnotation(
			*rect,
			0,  // no appearance stream
			"", // contents
			"", // id
			"", // modDate
			model.AnnNoZoom|model.AnnNoRotate,
			nil,  // border color
			dest, // internal destination
			"",   // no external URI
			nil,  // quad points: rect covers the row
			false, 0, model.BSSolid,
		)
		anns[l.tocPage] = append(anns[l.tocPage], ann)
	}

	if err := api.AddAnnotationsMapFile(finalPath, finalPath, anns, nil, false); err != nil {
		return fmt.Errorf("add toc links: %w", err)
	}
	return nil
}
