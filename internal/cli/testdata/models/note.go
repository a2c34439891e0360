package models

import "time"

// Note is a row of the notes table.
//
//tablegen:table table=notes id=id insertable deletable
type Note struct {
	ID        int64
	Title     string `tablegen:"get_many=by_title,set"`
	Body      string
	CreatedAt *time.Time `tablegen:"default"`
}

//tablegen:patch table_name=notes table=Note id=id
type RenameNote struct {
	Title string
}
