package review

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jonesrussell/north-cloud/reviews/internal/config/extraction"
	"github.com/jonesrussell/north-cloud/reviews/internal/marketplace"
)

// CardStrategy locates candidate review cards in a rendered document.
type CardStrategy struct {
	Name   string
	Locate func(doc *goquery.Document, profile marketplace.Profile, opts extraction.Config) []*goquery.Selection
}

// DefaultCardStrategies are tried in order; the first that yields cards wins.
var DefaultCardStrategies = []CardStrategy{
	{Name: "rating-anchored", Locate: locateByRating},
	{Name: "top-level-article", Locate: locateTopLevelArticles},
	{Name: "container-keyword", Locate: locateByContainerClass},
}

// LocateCards runs the default strategies against doc.
func LocateCards(doc *goquery.Document, profile marketplace.Profile, opts extraction.Config) []*goquery.Selection {
	cards, _ := locateWith(DefaultCardStrategies, doc, profile, opts)
	return cards
}

// locateWith returns the cards of the first productive strategy and its name.
func locateWith(
	strategies []CardStrategy,
	doc *goquery.Document,
	profile marketplace.Profile,
	opts extraction.Config,
) ([]*goquery.Selection, string) {
	if doc == nil {
		return nil, ""
	}
	for _, strategy := range strategies {
		cards := strategy.Locate(doc, profile, opts)
		if len(cards) == 0 {
			continue
		}
		if opts.MaxCards > 0 && len(cards) > opts.MaxCards {
			cards = cards[:opts.MaxCards]
		}
		return cards, strategy.Name
	}
	return nil, ""
}

// locateByRating anchors on rating widgets and walks up to the enclosing card.
func locateByRating(doc *goquery.Document, profile marketplace.Profile, opts extraction.Config) []*goquery.Selection {
	set := newCardSet()
	longEnough := make(map[*html.Node]bool)
	hasText := func(sel *goquery.Selection) bool {
		node := sel.Get(0)
		ok, cached := longEnough[node]
		if !cached {
			ok = exceedsLength(VisibleText(sel), opts.MinCardTextLength)
			longEnough[node] = ok
		}
		return ok
	}

	doc.Find("body *").Each(func(_ int, anchor *goquery.Selection) {
		if !isRatingElement(anchor, profile.Rating) {
			return
		}
		if card := enclosingCard(anchor, profile, hasText); card != nil {
			set.add(card)
		}
	})

	return set.innermost()
}

// enclosingCard walks the ancestors of anchor to the nearest article or
// card-like container and returns it when it carries enough visible text.
// A short nearest container (a page-level rating badge) yields nil; the walk
// never climbs past it. Ancestors that are part of the rating widget are
// skipped.
func enclosingCard(
	anchor *goquery.Selection,
	profile marketplace.Profile,
	hasText func(*goquery.Selection) bool,
) *goquery.Selection {
	for parent := anchor.Parent(); parent.Length() > 0; parent = parent.Parent() {
		node := parent.Get(0)
		if node.DataAtom == atom.Body || node.DataAtom == atom.Html {
			return nil
		}
		if isRatingElement(parent, profile.Rating) {
			continue
		}
		if !isCardContainer(parent, profile) {
			continue
		}
		if !hasText(parent) {
			return nil
		}
		return parent
	}
	return nil
}

func isCardContainer(sel *goquery.Selection, profile marketplace.Profile) bool {
	if goquery.NodeName(sel) == "article" {
		return true
	}
	return attrMatches(sel, profile.Container, []string{"class"})
}

// locateTopLevelArticles returns every article not nested in another article.
func locateTopLevelArticles(doc *goquery.Document, _ marketplace.Profile, opts extraction.Config) []*goquery.Selection {
	var cards []*goquery.Selection
	doc.Find("article").Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered("article").Length() > 0 {
			return
		}
		if exceedsLength(VisibleText(s), opts.MinCardTextLength) {
			cards = append(cards, s)
		}
	})
	return cards
}

var containerSelectors = []string{
	`div[class*="review"]`,
	`article[class*="review"]`,
	`li[class*="review"]`,
	`div[class*="opinion"]`,
	`div[class*="comentario"]`,
	`div[data-hook="review"]`,
}

// locateByContainerClass is the last resort for pages without rating widgets
// or articles: elements whose class names review-like blocks.
func locateByContainerClass(doc *goquery.Document, _ marketplace.Profile, opts extraction.Config) []*goquery.Selection {
	for _, selector := range containerSelectors {
		set := newCardSet()
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if exceedsLength(VisibleText(s), opts.MinCardTextLength) {
				set.add(s)
			}
		})
		if cards := set.innermost(); len(cards) > 0 {
			return cards
		}
	}
	return nil
}

// cardSet collects cards by node identity in discovery order.
type cardSet struct {
	seen  map[*html.Node]bool
	cards []*goquery.Selection
}

func newCardSet() *cardSet {
	return &cardSet{seen: make(map[*html.Node]bool)}
}

func (c *cardSet) add(sel *goquery.Selection) {
	node := sel.Get(0)
	if c.seen[node] {
		return
	}
	c.seen[node] = true
	c.cards = append(c.cards, sel)
}

// innermost drops cards that contain another collected card, so a page-level
// wrapper never shadows the reviews inside it.
func (c *cardSet) innermost() []*goquery.Selection {
	out := make([]*goquery.Selection, 0, len(c.cards))
	for _, card := range c.cards {
		if c.containsOther(card) {
			continue
		}
		out = append(out, card)
	}
	return out
}

func (c *cardSet) containsOther(card *goquery.Selection) bool {
	outer := card.Get(0)
	for _, other := range c.cards {
		inner := other.Get(0)
		if inner == outer {
			continue
		}
		for p := inner.Parent; p != nil; p = p.Parent {
			if p == outer {
				return true
			}
		}
	}
	return false
}
