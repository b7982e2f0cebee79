package repository

import "motormarket_backend/platform/filter"

// Schema declares the filterable listing attributes and their columns.
var Schema = filter.NewSchema(
	&filter.Search{
		Attributes: []string{"title", "description", "make", "model"},
		Columns:    []string{"l.title", "l.description", "l.make", "l.model"},
	},
	filter.Field{Name: "make", Kind: filter.KindString, Column: "l.make"},
	filter.Field{Name: "model", Kind: filter.KindString, Column: "l.model"},
	filter.Field{Name: "year", Kind: filter.KindInteger, Column: "l.year"},
	filter.Field{Name: "price", Kind: filter.KindNumber, Column: "l.price"},
	filter.Field{Name: "mileage", Kind: filter.KindInteger, Column: "l.mileage"},
	filter.Field{Name: "fuelType", Kind: filter.KindString, Column: "l.fuel_type"},
	filter.Field{Name: "transmission", Kind: filter.KindString, Column: "l.transmission"},
	filter.Field{Name: "bodyType", Kind: filter.KindString, Column: "l.body_type"},
	filter.Field{Name: "condition", Kind: filter.KindString, Column: "l.condition"},
	filter.Field{Name: "color", Kind: filter.KindString, Column: "l.color"},
	filter.Field{Name: "city", Kind: filter.KindString, Column: "l.city"},
)
