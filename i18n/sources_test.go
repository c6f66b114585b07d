package i18n

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestINISource_Load(t *testing.T) {
	content := `
[en]
ok_key = OK!
price = Costs 5 # not a comment

[validators.de]
email_invalid = Ungültige E-Mail-Adresse
`
	path := filepath.Join(t.TempDir(), "catalog.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	entries, err := INISource{Path: path}.Load(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []Entry{
		{Domain: "messages", Locale: "en", Key: "ok_key", Message: "OK!"},
		{Domain: "messages", Locale: "en", Key: "price", Message: "Costs 5 # not a comment"},
		{Domain: "validators", Locale: "de", Key: "email_invalid", Message: "Ungültige E-Mail-Adresse"},
	}, entries)
}

func TestINISource_Data(t *testing.T) {
	entries, err := INISource{Data: []byte("[de]\nok_key = Gut\n")}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Domain: "messages", Locale: "de", Key: "ok_key", Message: "Gut"}}, entries)
}

func TestINISource_MissingFile(t *testing.T) {
	_, err := INISource{Path: filepath.Join(t.TempDir(), "none.ini")}.Load(context.Background())
	assert.Error(t, err)
}

func TestSQLSource_Load(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"domain", "locale", "msg_key", "message"}).
		AddRow("messages", "en", "ok_key", "OK!").
		AddRow("messages", "fr", "ok_key", "D'accord !")
	mock.ExpectQuery(`SELECT domain, locale, msg_key, message FROM "translations"`).WillReturnRows(rows)

	entries, err := SQLSource{DB: db}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Domain: "messages", Locale: "en", Key: "ok_key", Message: "OK!"},
		{Domain: "messages", Locale: "fr", Key: "ok_key", Message: "D'accord !"},
	}, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSource_CustomTableAndError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT domain, locale, msg_key, message FROM "i18n_messages"`).
		WillReturnError(errors.New("relation does not exist"))

	_, err = SQLSource{DB: db, Table: "i18n_messages"}.Load(context.Background())
	assert.ErrorContains(t, err, "relation does not exist")
	assert.NoError(t, mock.ExpectationsWereMet())
}

type fakeCollection struct {
	docs       []interface{}
	err        error
	lastFilter interface{}
}

func (f *fakeCollection) Find(_ context.Context, filter interface{}, _ ...*options.FindOptions) (*mongo.Cursor, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return mongo.NewCursorFromDocuments(f.docs, nil, nil)
}

func TestMongoSource_Load(t *testing.T) {
	coll := &fakeCollection{docs: []interface{}{
		bson.D{{Key: "domain", Value: "messages"}, {Key: "locale", Value: "en"}, {Key: "key", Value: "ok_key"}, {Key: "message", Value: "OK!"}},
		bson.D{{Key: "domain", Value: "messages"}, {Key: "locale", Value: "de"}, {Key: "key", Value: "ok_key"}, {Key: "message", Value: "Gut!"}},
	}}

	entries, err := MongoSource{Collection: coll, Domains: []string{"messages"}}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Domain: "messages", Locale: "en", Key: "ok_key", Message: "OK!"},
		{Domain: "messages", Locale: "de", Key: "ok_key", Message: "Gut!"},
	}, entries)
	assert.Equal(t, bson.M{"domain": bson.M{"$in": []string{"messages"}}}, coll.lastFilter)
}

func TestMongoSource_FindError(t *testing.T) {
	coll := &fakeCollection{err: errors.New("no primary")}

	_, err := MongoSource{Collection: coll}.Load(context.Background())
	assert.ErrorContains(t, err, "no primary")
	assert.Equal(t, bson.M{}, coll.lastFilter)
}

func TestConnectMongoSource_ConnectError(t *testing.T) {
	orig := mongoConnect
	mongoConnect = func(ctx context.Context, uri string) (*mongo.Client, error) {
		return nil, errors.New("dial failed")
	}
	defer func() { mongoConnect = orig }()

	_, _, err := ConnectMongoSource(context.Background(), "mongodb://nowhere", "app")
	assert.ErrorContains(t, err, "dial failed")
}
