package api

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"

	"github.com/damon-houk/nbk-rate-viewer/internal/domain/entity"
	domainservice "github.com/damon-houk/nbk-rate-viewer/internal/domain/service"
)

// Parse extracts every <item> of a rate feed document.
// Items are collected wherever they appear, so both the <rates> layout and
// the RSS <channel> layout are accepted.
func Parse(r io.Reader) (*entity.RateSnapshot, error) {
	const op = "api.Parse"

	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charsetReader

	snapshot := &entity.RateSnapshot{Items: []entity.RateItem{}}
	depth := 0
	sawRoot := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(domainservice.ErrMalformedFeed, "%s: %v", op, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			sawRoot = true
			depth++

			switch {
			case t.Name.Local == "item":
				var item entity.RateItem
				if err := decoder.DecodeElement(&item, &t); err != nil {
					return nil, errors.Wrapf(domainservice.ErrMalformedFeed, "%s: item: %v", op, err)
				}
				depth--
				snapshot.Items = append(snapshot.Items, trimItem(item))

			// only the document-level <date>, directly under the root
			case t.Name.Local == "date" && depth == 2 && snapshot.Date == "":
				var date string
				if err := decoder.DecodeElement(&date, &t); err != nil {
					return nil, errors.Wrapf(domainservice.ErrMalformedFeed, "%s: date: %v", op, err)
				}
				depth--
				snapshot.Date = strings.TrimSpace(date)
			}

		case xml.EndElement:
			depth--
		}
	}

	if !sawRoot {
		return nil, errors.Wrapf(domainservice.ErrMalformedFeed, "%s: empty document", op)
	}

	return snapshot, nil
}

func trimItem(item entity.RateItem) entity.RateItem {
	item.Title = strings.TrimSpace(item.Title)
	item.FullName = strings.TrimSpace(item.FullName)
	item.Description = strings.TrimSpace(item.Description)
	item.Quant = strings.TrimSpace(item.Quant)
	item.Index = strings.TrimSpace(item.Index)
	item.Change = strings.TrimSpace(item.Change)
	return item
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "windows-1251", "cp1251":
		return charmap.Windows1251.NewDecoder().Reader(input), nil
	default:
		return nil, fmt.Errorf("unknown charset: %s", charset)
	}
}
