package utils

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// EnhanceHTMLContent adds lazy loading to images and marks code blocks with the
// language parsed from their class.
func EnhanceHTMLContent(htmlStr string) string {
	if htmlStr == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return htmlStr
	}

	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		s.SetAttr("referrerpolicy", "no-referrer")
		s.SetAttr("loading", "lazy")
	})

	doc.Find("pre > code").Each(func(i int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		for _, c := range strings.Fields(class) {
			if lang, ok := strings.CutPrefix(c, "language-"); ok {
				s.Parent().SetAttr("data-lang", lang)
				break
			}
		}
	})

	// goquery wraps fragments in html/body
	out, _ := doc.Find("body").Html()
	if out == "" {
		out, _ = doc.Html()
	}
	return out
}
