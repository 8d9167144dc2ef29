package application

import "github.com/prometheus/client_golang/prometheus"

var (
	articlesCreatedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "news_articles_created_total",
		Help: "Total number of articles created.",
	})
	articleViewsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "news_article_views_total",
		Help: "Total number of article detail views.",
	})
	galleryUploadsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "news_gallery_images_uploaded_total",
		Help: "Total number of gallery images persisted.",
	})
)

func init() {
	prometheus.MustRegister(articlesCreatedCounter, articleViewsCounter, galleryUploadsCounter)
}
