package roundtrip

// Note is a row of the notes table.
//
//tablegen:table table=notes id=id insertable deletable
type Note struct {
	ID     int64
	Title  string `tablegen:"get_many=by_title,set"`
	Body   string `tablegen:"get_optional"`
	Status string `tablegen:"default"`
}

//tablegen:patch table_name=notes table=Note id=id
type RenameNote struct {
	Title string
}
