// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package importer

// DefaultTables is the registry of seed CSV files the importer knows how to
// load. The files themselves are operator-supplied and expected under the
// configured data directory (CSV_DATA_PATH).
//
// CSV header names follow the seed file layout; database columns follow the
// schema in data/migrations.
func DefaultTables() []Table {
	return []Table{
		{
			Name:     "users",
			SQLTable: "users.account",
			CSVFile:  "users.csv",
			Columns: []Column{
				{CSV: "id", DB: "id", Kind: Integer},
				{CSV: "username", DB: "username", Kind: Text},
				{CSV: "email", DB: "email", Kind: Text},
				{CSV: "role", DB: "role", Kind: Text},
				{CSV: "bio", DB: "bio", Kind: Text},
				{CSV: "first_name", DB: "firstname", Kind: Text},
				{CSV: "last_name", DB: "lastname", Kind: Text},
			},
		},
		{
			Name:     "category",
			SQLTable: "content.category",
			CSVFile:  "category.csv",
			Columns: []Column{
				{CSV: "id", DB: "id", Kind: Integer},
				{CSV: "name", DB: "name", Kind: Text},
				{CSV: "slug", DB: "slug", Kind: Text},
			},
		},
		{
			Name:     "genre",
			SQLTable: "content.genre",
			CSVFile:  "genre.csv",
			Columns: []Column{
				{CSV: "id", DB: "id", Kind: Integer},
				{CSV: "name", DB: "name", Kind: Text},
				{CSV: "slug", DB: "slug", Kind: Text},
			},
		},
		{
			Name:     "titles",
			SQLTable: "content.title",
			CSVFile:  "titles.csv",
			Columns: []Column{
				{CSV: "id", DB: "id", Kind: Integer},
				{CSV: "name", DB: "name", Kind: Text},
				{CSV: "year", DB: "year", Kind: Integer},
				{CSV: "category", DB: "categoryid", Kind: Reference, Ref: "category"},
			},
		},
		{
			Name:     "review",
			SQLTable: "content.review",
			CSVFile:  "review.csv",
			Columns: []Column{
				{CSV: "id", DB: "id", Kind: Integer},
				{CSV: "title_id", DB: "titleid", Kind: Reference, Ref: "titles"},
				{CSV: "text", DB: "text", Kind: Text},
				{CSV: "author", DB: "authorid", Kind: Reference, Ref: "users"},
				{CSV: "score", DB: "score", Kind: Integer},
				{CSV: "pub_date", DB: "pubdate", Kind: Timestamp},
			},
		},
		{
			Name:     "comments",
			SQLTable: "content.comment",
			CSVFile:  "comments.csv",
			Columns: []Column{
				{CSV: "id", DB: "id", Kind: Integer},
				{CSV: "review_id", DB: "reviewid", Kind: Reference, Ref: "review"},
				{CSV: "text", DB: "text", Kind: Text},
				{CSV: "author", DB: "authorid", Kind: Reference, Ref: "users"},
				{CSV: "pub_date", DB: "pubdate", Kind: Timestamp},
			},
		},
		{
			Name:     "genre_title",
			SQLTable: "content.title_genre",
			CSVFile:  "genre_title.csv",
			M2M:      true,
			Columns: []Column{
				{CSV: "title_id", DB: "titleid", Kind: Reference, Ref: "titles"},
				{CSV: "genre_id", DB: "genreid", Kind: Reference, Ref: "genre"},
			},
		},
	}
}

// DefaultOrder lists every table so parents always load before the tables
// that reference them.
func DefaultOrder() []string {
	return []string{
		"users",
		"category",
		"genre",
		"titles",
		"review",
		"comments",
		"genre_title",
	}
}
