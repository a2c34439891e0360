package models

//tablegen:table table=users id=id
type Broken struct {
	ID int64 `tablegen:"get_one(string"`
}
