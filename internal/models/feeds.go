package models

// DefaultFeeds возвращает каталог источников по умолчанию для категории.
// Используется, когда в настройках категории не задан ни один источник.
func DefaultFeeds(c Category) []FeedSource {
	switch c {
	case CategoryNational:
		return []FeedSource{
			{Name: "AP News - US", URL: "https://rsshub.app/apnews/topics/apf-usnews", Enabled: true},
			{Name: "NPR News", URL: "https://feeds.npr.org/1001/rss.xml", Enabled: true},
			{Name: "CBS News", URL: "https://www.cbsnews.com/latest/rss/main", Enabled: true},
			{Name: "ABC News", URL: "https://abcnews.go.com/abcnews/topstories", Enabled: false},
		}
	case CategoryInternational:
		return []FeedSource{
			{Name: "BBC World", URL: "https://feeds.bbci.co.uk/news/world/rss.xml", Enabled: true},
			{Name: "AP News - World", URL: "https://rsshub.app/apnews/topics/apf-intlnews", Enabled: true},
			{Name: "Reuters World", URL: "https://www.reutersagency.com/feed/?taxonomy=best-regions&post_type=best", Enabled: true},
			{Name: "Al Jazeera", URL: "https://www.aljazeera.com/xml/rss/all.xml", Enabled: false},
		}
	case CategoryBusiness:
		return []FeedSource{
			{Name: "CNBC", URL: "https://www.cnbc.com/id/100003114/device/rss/rss.html", Enabled: true},
			{Name: "Bloomberg", URL: "https://feeds.bloomberg.com/markets/news.rss", Enabled: true},
			{Name: "MarketWatch", URL: "https://feeds.marketwatch.com/marketwatch/topstories/", Enabled: true},
			{Name: "Yahoo Finance", URL: "https://finance.yahoo.com/news/rssindex", Enabled: false},
		}
	case CategorySports:
		return []FeedSource{
			{Name: "ESPN", URL: "https://www.espn.com/espn/rss/news", Enabled: true},
			{Name: "CBS Sports", URL: "https://www.cbssports.com/rss/headlines/", Enabled: true},
			{Name: "Yahoo Sports", URL: "https://sports.yahoo.com/rss/", Enabled: true},
			{Name: "Bleacher Report", URL: "https://bleacherreport.com/articles/feed", Enabled: false},
		}
	case CategoryScience:
		return []FeedSource{
			{Name: "Science Daily", URL: "https://www.sciencedaily.com/rss/all.xml", Enabled: true},
			{Name: "NASA", URL: "https://www.nasa.gov/rss/dyn/breaking_news.rss", Enabled: true},
			{Name: "NPR Science", URL: "https://feeds.npr.org/1007/rss.xml", Enabled: true},
			{Name: "Ars Technica", URL: "https://feeds.arstechnica.com/arstechnica/science", Enabled: true},
			{Name: "TechCrunch", URL: "https://techcrunch.com/feed/", Enabled: false},
		}
	}

	return nil
}
