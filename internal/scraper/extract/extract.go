package extract

import (
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"upscout/pkg/models"
	"upscout/pkg/utils"
)

const (
	// paymentVerifiedPhrase is searched for anywhere in a container's
	// visible text to derive the payment verification flag.
	paymentVerifiedPhrase = "Payment verified"

	notListed = "Not listed"
	notFound  = "N/A"
)

// Selectors for the marketplace's search results markup. Kept to the
// minimum needed to read one listing container.
const (
	containerSelector   = "article"
	titleLinkSelector   = "h2 a"
	totalSpentSelector  = `[data-test="total-spent"]`
	jobInfoSelector     = `[data-test="JobInfo"]`
	descriptionSelector = `[data-test="UpCLineClamp JobDescription"]`
	techTokenSelector   = ".air3-token-container .air3-token-wrap button"
)

// Listings extracts one listing record per container found in the
// rendered page content. The returned sequence is lazy and finite; a
// page with no containers yields an empty sequence, never an error.
// Extraction is a pure function of the content: no network or timing
// side effects.
func Listings(pageContent string) iter.Seq[models.Listing] {
	return func(yield func(models.Listing) bool) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageContent))
		if err != nil {
			return
		}

		containers := doc.Find(containerSelector)
		for i := 0; i < containers.Length(); i++ {
			c := container{sel: containers.Eq(i)}
			if !yield(c.listing()) {
				return
			}
		}
	}
}

// container wraps one listing element and exposes typed accessors with
// explicit defaults for absent content.
type container struct {
	sel *goquery.Selection
}

func (c container) listing() models.Listing {
	title, link := c.titleAndLink()

	return models.Listing{
		Title:           title,
		Link:            link,
		ClientSpent:     c.clientSpent(),
		EstimatedBudget: c.estimatedBudget(),
		Description:     c.description(),
		PaymentVerified: c.paymentVerified(),
		TechStack:       c.techStack(),
	}
}

// titleAndLink reads the primary heading link. Both default to "N/A"
// when the heading is absent.
func (c container) titleAndLink() (string, string) {
	heading := c.sel.Find(titleLinkSelector).First()
	if heading.Length() == 0 {
		return notFound, notFound
	}

	title := utils.GetStringOrDefault(utils.CollapseWhitespace(heading.Text()), notFound)

	link := notFound
	if href, ok := heading.Attr("href"); ok && strings.TrimSpace(href) != "" {
		link = absoluteLink(strings.TrimSpace(href))
	}

	return title, link
}

// clientSpent reads the spend badge, defaulting to "Not listed".
func (c container) clientSpent() string {
	badge := c.sel.Find(totalSpentSelector).First()
	if badge.Length() == 0 {
		return notListed
	}
	return utils.GetStringOrDefault(strings.TrimSpace(badge.Text()), notListed)
}

// estimatedBudget reads the budget/info block with internal whitespace
// collapsed, defaulting to "Not listed".
func (c container) estimatedBudget() string {
	block := c.sel.Find(jobInfoSelector).First()
	if block.Length() == 0 {
		return notListed
	}
	return utils.GetStringOrDefault(utils.CollapseWhitespace(block.Text()), notListed)
}

// description reads the description block with internal whitespace
// collapsed, defaulting to "Not listed".
func (c container) description() string {
	block := c.sel.Find(descriptionSelector).First()
	if block.Length() == 0 {
		return notListed
	}
	return utils.GetStringOrDefault(utils.CollapseWhitespace(block.Text()), notListed)
}

// paymentVerified derives the flag from phrase presence anywhere in the
// container's visible text.
func (c container) paymentVerified() string {
	if strings.Contains(c.sel.Text(), paymentVerifiedPhrase) {
		return "Yes"
	}
	return "No"
}

// techStack joins the token-container's child button labels with ", ",
// defaulting to "Not listed" when there are zero tokens.
func (c container) techStack() string {
	var tokens []string
	c.sel.Find(techTokenSelector).Each(func(_ int, btn *goquery.Selection) {
		if text := strings.TrimSpace(btn.Text()); text != "" {
			tokens = append(tokens, text)
		}
	})

	if len(tokens) == 0 {
		return notListed
	}
	return strings.Join(tokens, ", ")
}

// absoluteLink resolves site-relative hrefs against the marketplace
// origin; the browser reports absolute URLs but raw markup may not.
func absoluteLink(href string) string {
	if strings.HasPrefix(href, "/") {
		return "https://www.upwork.com" + href
	}
	return href
}
