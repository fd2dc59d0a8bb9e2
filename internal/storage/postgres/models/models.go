package models

import (
	"yamdb/proj/internal/storage/postgres"
)

// relations maps foreign key constraint names to the relation they point at.
var relations = map[string]string{
	"titles_category_id_fkey":    "category",
	"genre_titles_title_id_fkey": "title",
	"genre_titles_genre_id_fkey": "genre",
	"reviews_title_id_fkey":      "title",
	"reviews_author_id_fkey":     "user",
	"comments_review_id_fkey":    "review",
	"comments_author_id_fkey":    "user",
	"tokens_user_id_fkey":        "user",
}

func mapErr(err error) error {
	return postgres.MapError(err, relations)
}

type Models struct {
	Category *TaxonomyModel
	Genre    *TaxonomyModel
	Title    *TitleModel
	Review   *ReviewModel
	Comment  *CommentModel
	User     *UserModel
	Token    *TokenModel
	Import   *ImportModel
	Admin    *AdminModel
}

func New(db *postgres.PostgresDB) *Models {
	return &Models{
		Category: &TaxonomyModel{DB: db.Conn, table: "categories"},
		Genre:    &TaxonomyModel{DB: db.Conn, table: "genres"},
		Title:    &TitleModel{DB: db},
		Review:   &ReviewModel{DB: db.Conn},
		Comment:  &CommentModel{DB: db.Conn},
		User:     &UserModel{DB: db.Conn},
		Token:    &TokenModel{DB: db.Conn},
		Import:   &ImportModel{DB: db},
		Admin:    &AdminModel{DB: db.Conn},
	}
}
