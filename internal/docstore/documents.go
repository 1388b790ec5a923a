// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package docstore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogtraffic/internal/models"
)

type websiteDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	UserID           string             `bson:"userId"`
	Name             string             `bson:"name"`
	URL              string             `bson:"url"`
	Description      string             `bson:"description,omitempty"`
	Logo             string             `bson:"logo,omitempty"`
	BlogNumber       int                `bson:"blogNumber"`
	BlogPostEndPoint string             `bson:"blogPostEndPoint"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
}

func (d *websiteDoc) model() *models.Website {
	return &models.Website{
		ID:              d.ID.Hex(),
		OwnerID:         d.UserID,
		Name:            d.Name,
		URL:             d.URL,
		Description:     d.Description,
		Logo:            d.Logo,
		PublishEndpoint: d.BlogPostEndPoint,
		BlogCount:       d.BlogNumber,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type brandDoc struct {
	Name string `bson:"name"`
	Logo string `bson:"logo,omitempty"`
}

type seoDoc struct {
	TopicTheme  string `bson:"topicTheme"`
	Description string `bson:"description,omitempty"`
}

type scrapeDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	WebsiteID   primitive.ObjectID `bson:"websiteId"`
	Brand       brandDoc           `bson:"brand"`
	SEO         seoDoc             `bson:"seo"`
	Services    []string           `bson:"services"`
	SnapshotKey string             `bson:"snapshotKey,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func newScrapeDoc(sc *models.Scrape, websiteID primitive.ObjectID, now time.Time) *scrapeDoc {
	services := sc.Services
	if services == nil {
		services = []string{}
	}
	return &scrapeDoc{
		WebsiteID:   websiteID,
		Brand:       brandDoc{Name: sc.Brand.Name, Logo: sc.Brand.Logo},
		SEO:         seoDoc{TopicTheme: sc.SEO.TopicTheme, Description: sc.SEO.Description},
		Services:    services,
		SnapshotKey: sc.SnapshotKey,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (d *scrapeDoc) model() *models.Scrape {
	return &models.Scrape{
		ID:          d.ID.Hex(),
		WebsiteID:   d.WebsiteID.Hex(),
		Brand:       models.Brand{Name: d.Brand.Name, Logo: d.Brand.Logo},
		SEO:         models.SEO{TopicTheme: d.SEO.TopicTheme, Description: d.SEO.Description},
		Services:    d.Services,
		SnapshotKey: d.SnapshotKey,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type keywordDoc struct {
	Name   string `bson:"name"`
	Volume int    `bson:"volume"`
}

type blogDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	UserID         string             `bson:"userId"`
	WebsiteID      primitive.ObjectID `bson:"websiteId"`
	Title          string             `bson:"title"`
	Slug           string             `bson:"slug,omitempty"`
	Content        string             `bson:"content,omitempty"`
	SEOTitle       string             `bson:"seoTitle,omitempty"`
	SEODescription string             `bson:"seoDescription,omitempty"`
	Keywords       []keywordDoc       `bson:"keywords"`
	Status         string             `bson:"status"`
	ScheduledFor   *time.Time         `bson:"scheduledFor,omitempty"`
	PublishedAt    *time.Time         `bson:"publishedAt,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

func newBlogDoc(b *models.Blog, websiteID primitive.ObjectID, now time.Time) *blogDoc {
	return &blogDoc{
		UserID:         b.OwnerID,
		WebsiteID:      websiteID,
		Title:          b.Title,
		Slug:           b.Slug,
		Content:        b.Content,
		SEOTitle:       b.SEOTitle,
		SEODescription: b.SEODescription,
		Keywords:       keywordDocs(b.Keywords),
		Status:         string(b.Status),
		ScheduledFor:   b.ScheduledFor,
		PublishedAt:    b.PublishedAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func keywordDocs(ks []models.Keyword) []keywordDoc {
	out := make([]keywordDoc, len(ks))
	for i, k := range ks {
		out[i] = keywordDoc{Name: k.Name, Volume: k.Volume}
	}
	return out
}

func (d *blogDoc) model() *models.Blog {
	keywords := make([]models.Keyword, len(d.Keywords))
	for i, k := range d.Keywords {
		keywords[i] = models.Keyword{Name: k.Name, Volume: k.Volume}
	}
	status := models.BlogStatus(d.Status)
	if status == "" {
		status = models.BlogStatusDraft
	}
	return &models.Blog{
		ID:             d.ID.Hex(),
		OwnerID:        d.UserID,
		WebsiteID:      d.WebsiteID.Hex(),
		Title:          d.Title,
		Slug:           d.Slug,
		Content:        d.Content,
		SEOTitle:       d.SEOTitle,
		SEODescription: d.SEODescription,
		Keywords:       keywords,
		Status:         status,
		ScheduledFor:   d.ScheduledFor,
		PublishedAt:    d.PublishedAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}
