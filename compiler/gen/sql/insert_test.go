package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/tablegen/compiler/load"
	"github.com/syssam/tablegen/dialect"
)

func TestGenInsert_Returning(t *testing.T) {
	h := newMockHelper(t, dialect.Postgres, userDecl(t))
	f := h.NewFile("models")
	genInsert(h, f, h.table("User"))

	code := f.GoString()
	assert.Contains(t, code, "type InsertUser struct {")
	assert.Contains(t, code, "Token uuid.UUID")
	assert.NotContains(t, code, "LastLogin *time.Time")
	assert.Contains(t, code, "func (iu *InsertUser) Insert(ctx context.Context, db dialect.ExecQuerier) (*User, error) {")
	assert.Contains(t, code, "Email: iu.Email")
	assert.Contains(t, code, `tablegen.InsertReturning(ctx, db, "User", userInsertStmt, []any{iu.Email, iu.Role, iu.Token}, &row.UserID, &row.LastLogin)`)
	assert.Contains(t, code, "return row, nil")
	assert.NotContains(t, code, "InsertLastID")
}

func TestGenInsert_LastID(t *testing.T) {
	h := newMockHelper(t, dialect.MySQL, accountDecl(t))
	f := h.NewFile("models")
	genInsert(h, f, h.table("Account"))

	code := f.GoString()
	assert.Contains(t, code, "func (ia *InsertAccount) Insert(ctx context.Context, db dialect.ExecQuerier) (*Account, error) {")
	assert.Contains(t, code, `tablegen.InsertLastID(ctx, db, "Account", tablegen.LastIDInsert{`)
	assert.Contains(t, code, "accountInsertStmt")
	assert.Contains(t, code, "accountLastIDStmt")
	assert.Contains(t, code, "accountDefaultsStmt")
	assert.Contains(t, code, "[]any{ia.Name, ia.Order}")
	assert.Contains(t, code, "[]any{&row.CreatedAt}")
	assert.Contains(t, code, "&row.ID")
	assert.NotContains(t, code, "InsertReturning")
}

func TestGenInsert_CustomName(t *testing.T) {
	d := declaration(t, load.KindTable, "Post", "table=posts id=id insertable=NewPost",
		[3]string{"ID", "int64", ""},
		[3]string{"Title", "string", ""},
	)
	h := newMockHelper(t, dialect.MySQL, d)
	f := h.NewFile("models")
	genInsert(h, f, h.table("Post"))

	code := f.GoString()
	assert.Contains(t, code, "type NewPost struct {")
	assert.Contains(t, code, "func (np *NewPost) Insert(")
	assert.NotContains(t, code, "DefaultDest")
}
