package sitemap

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// pageMeta holds the OpenGraph fields scraped from one page.
type pageMeta struct {
	Title       string
	Description string
	Image       string
}

// extractOpenGraph walks the parsed document and pulls og:title,
// og:description, and og:image, falling back to the <title> element and the
// standard meta description when the OpenGraph tags are absent.
func extractOpenGraph(body io.Reader) (pageMeta, error) {
	doc, err := html.Parse(body)
	if err != nil {
		return pageMeta{}, err
	}

	var meta pageMeta
	var titleTag string
	var metaDescription string

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			switch node.Data {
			case "meta":
				property := attrValue(node, "property")
				name := attrValue(node, "name")
				content := attrValue(node, "content")
				switch {
				case property == "og:title" && meta.Title == "":
					meta.Title = content
				case property == "og:description" && meta.Description == "":
					meta.Description = content
				case property == "og:image" && meta.Image == "":
					meta.Image = content
				case name == "description" && metaDescription == "":
					metaDescription = content
				}
			case "title":
				if titleTag == "" {
					titleTag = textContent(node)
				}
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	if meta.Title == "" {
		meta.Title = titleTag
	}
	if meta.Description == "" {
		meta.Description = metaDescription
	}
	meta.Title = strings.TrimSpace(meta.Title)
	meta.Description = strings.TrimSpace(meta.Description)
	meta.Image = strings.TrimSpace(meta.Image)
	return meta, nil
}

func attrValue(node *html.Node, key string) string {
	for _, attr := range node.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func textContent(node *html.Node) string {
	var builder strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			builder.WriteString(child.Data)
		}
	}
	return strings.TrimSpace(builder.String())
}
