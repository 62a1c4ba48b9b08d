// Package news fetches market news articles from the Polygon reference API.
//
// REST endpoint:
//   - https://api.polygon.io/v2/reference/news
//
// Articles decode straight into model.NewsRecord; insights are kept as
// untyped JSON with numbers preserved as json.Number.
package news
