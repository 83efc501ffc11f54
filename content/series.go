package content

import "sort"

// Series groups the articles sharing one normalized series key, in reading
// order. Spellings records every raw front-matter value that mapped to the
// key; more than one means the corpus drifted ("Laravel Vue SPA" vs
// "laravel-vue-spa") and the linter will say so.
type Series struct {
	Key       string
	Title     string
	Spellings []string
	Articles  []Article
}

// Len returns the number of articles in the series.
func (s Series) Len() int { return len(s.Articles) }

// Navigation is the prev/next reading chain around one article of a series.
type Navigation struct {
	Series *Series
	Prev   *Article
	Next   *Article
}

// GroupSeries buckets articles by normalized series key and orders each bucket
// by series position, slug as a stable tiebreaker when positions collide.
// titles maps series keys to canonical display titles and may be nil; without
// a declared title the first observed spelling is used. The returned map
// indexes series key into the slice.
func GroupSeries(articles []Article, titles map[string]string) ([]Series, map[string]int) {
	buckets := make(map[string]*Series)
	for _, a := range articles {
		if !a.InSeries() {
			continue
		}
		s, ok := buckets[a.SeriesKey]
		if !ok {
			s = &Series{Key: a.SeriesKey}
			buckets[a.SeriesKey] = s
		}
		s.Articles = append(s.Articles, a)
		if !containsString(s.Spellings, a.Series) {
			s.Spellings = append(s.Spellings, a.Series)
		}
	}

	series := make([]Series, 0, len(buckets))
	for _, s := range buckets {
		sort.SliceStable(s.Articles, func(i, j int) bool {
			if s.Articles[i].SeriesOrder != s.Articles[j].SeriesOrder {
				return s.Articles[i].SeriesOrder < s.Articles[j].SeriesOrder
			}
			return s.Articles[i].Slug < s.Articles[j].Slug
		})
		sort.Strings(s.Spellings)
		if title, ok := titles[s.Key]; ok && title != "" {
			s.Title = title
		} else {
			s.Title = s.Spellings[0]
		}
		series = append(series, *s)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Key < series[j].Key })

	byKey := make(map[string]int, len(series))
	for i, s := range series {
		byKey[s.Key] = i
	}
	return series, byKey
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
