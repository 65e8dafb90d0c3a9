package sqlite

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dekarrin/rowjam"
	"github.com/stretchr/testify/assert"
)

var testSpec = rowjam.TableSpec{
	"active": {Type: "VARCHAR"},
	"count":  {Type: "INTEGER"},
	"name":   {Type: "NVARCHAR"},
}

func Test_Create(t *testing.T) {
	t.Run("successful creation with hinted field", func(t *testing.T) {
		assert := assert.New(t)

		driver, dbMock, err := sqlmock.New()
		if !assert.NoError(err) {
			return
		}

		repo := EntityStore{DB: driver, Table: "entities", Spec: testSpec}
		ctx := context.Background()

		dbMock.
			ExpectPrepare("INSERT INTO entities").
			ExpectExec().
			WithArgs(
				AnyID{},
				"true",
				int64(3),
				"x",
				`{"active":"b"}`,
			).
			WillReturnResult(sqlmock.NewResult(1, 1))

		id, err := repo.Create(ctx, rowjam.MapEntity{
			"active": true,
			"count":  3,
			"name":   "x",
		})

		if !assert.NoError(err) {
			return
		}
		assert.NotEmpty(id)
		assert.NoError(dbMock.ExpectationsWereMet())
	})

	t.Run("omitted fields are not inserted", func(t *testing.T) {
		assert := assert.New(t)

		driver, dbMock, err := sqlmock.New()
		if !assert.NoError(err) {
			return
		}

		repo := EntityStore{DB: driver, Table: "entities", Spec: testSpec}
		ctx := context.Background()

		// count is 0 so it is dropped by the mapper; only id and name go in
		dbMock.
			ExpectPrepare("INSERT INTO entities").
			ExpectExec().
			WithArgs(
				AnyID{},
				"x",
			).
			WillReturnResult(sqlmock.NewResult(1, 1))

		_, err = repo.Create(ctx, rowjam.MapEntity{
			"count": 0,
			"name":  "x",
		})

		if !assert.NoError(err) {
			return
		}
		assert.NoError(dbMock.ExpectationsWereMet())
	})

	t.Run("nil entity is rejected", func(t *testing.T) {
		assert := assert.New(t)

		driver, _, err := sqlmock.New()
		if !assert.NoError(err) {
			return
		}

		repo := EntityStore{DB: driver, Table: "entities", Spec: testSpec}

		_, err = repo.Create(context.Background(), nil)

		assert.ErrorIs(err, rowjam.ErrBadArgument)
	})
}

func Test_Get(t *testing.T) {
	t.Run("hinted fields are reconstructed", func(t *testing.T) {
		assert := assert.New(t)

		driver, dbMock, err := sqlmock.New()
		if !assert.NoError(err) {
			return
		}

		repo := EntityStore{DB: driver, Table: "entities", Spec: testSpec}
		ctx := context.Background()

		dbMock.
			ExpectQuery("SELECT .* FROM entities").
			WithArgs("8d27d2b1-3ce4-4dcd-9b5a-7a6b10ae6dd2").
			WillReturnRows(sqlmock.NewRows([]string{
				"active", "count", "name", rowjam.HintColumn,
			}).AddRow(
				"true",
				int64(3),
				"x",
				`{"active":"b"}`,
			))

		ent, err := repo.Get(ctx, "8d27d2b1-3ce4-4dcd-9b5a-7a6b10ae6dd2", rowjam.MapEntity{})

		if !assert.NoError(err) {
			return
		}
		assert.Equal(true, ent.Value("active"))
		assert.Equal(int64(3), ent.Value("count"))
		assert.Equal("x", ent.Value("name"))
		assert.NotContains(ent.Fields(), rowjam.HintColumn)
		assert.NoError(dbMock.ExpectationsWereMet())
	})

	t.Run("NULL columns become absent fields", func(t *testing.T) {
		assert := assert.New(t)

		driver, dbMock, err := sqlmock.New()
		if !assert.NoError(err) {
			return
		}

		repo := EntityStore{DB: driver, Table: "entities", Spec: testSpec}

		dbMock.
			ExpectQuery("SELECT .* FROM entities").
			WillReturnRows(sqlmock.NewRows([]string{
				"active", "count", "name", rowjam.HintColumn,
			}).AddRow(
				nil,
				nil,
				"x",
				nil,
			))

		ent, err := repo.Get(context.Background(), "some-id", rowjam.MapEntity{})

		if !assert.NoError(err) {
			return
		}
		assert.Equal([]string{"name"}, ent.Fields())
	})

	t.Run("missing row is ErrNotFound", func(t *testing.T) {
		assert := assert.New(t)

		driver, dbMock, err := sqlmock.New()
		if !assert.NoError(err) {
			return
		}

		repo := EntityStore{DB: driver, Table: "entities", Spec: testSpec}

		dbMock.
			ExpectQuery("SELECT .* FROM entities").
			WillReturnRows(sqlmock.NewRows([]string{
				"active", "count", "name", rowjam.HintColumn,
			}))

		_, err = repo.Get(context.Background(), "no such id", rowjam.MapEntity{})

		assert.ErrorIs(err, rowjam.ErrNotFound)
	})
}

func Test_GetAll(t *testing.T) {
	assert := assert.New(t)

	driver, dbMock, err := sqlmock.New()
	if !assert.NoError(err) {
		return
	}

	repo := EntityStore{DB: driver, Table: "entities", Spec: testSpec}

	dbMock.
		ExpectQuery("SELECT .* FROM entities ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{
			"active", "count", "name", rowjam.HintColumn,
		}).AddRow(
			"true", nil, "first", `{"active":"b"}`,
		).AddRow(
			nil, int64(9), "second", nil,
		))

	all, err := repo.GetAll(context.Background(), rowjam.MapEntity{})

	if !assert.NoError(err) {
		return
	}
	if !assert.Len(all, 2) {
		return
	}
	assert.Equal(true, all[0].Value("active"))
	assert.Equal("first", all[0].Value("name"))
	assert.Equal(int64(9), all[1].Value("count"))
	assert.Equal("second", all[1].Value("name"))
}

func Test_Update(t *testing.T) {
	t.Run("all spec columns are written", func(t *testing.T) {
		assert := assert.New(t)

		driver, dbMock, err := sqlmock.New()
		if !assert.NoError(err) {
			return
		}

		repo := EntityStore{DB: driver, Table: "entities", Spec: testSpec}

		// active and count were not in the entity, so they are set to NULL
		dbMock.
			ExpectExec("UPDATE entities SET").
			WithArgs(
				nil,
				nil,
				"renamed",
				nil,
				"some-id",
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Update(context.Background(), "some-id", rowjam.MapEntity{
			"name": "renamed",
		})

		assert.NoError(err)
		assert.NoError(dbMock.ExpectationsWereMet())
	})

	t.Run("no rows affected is ErrNotFound", func(t *testing.T) {
		assert := assert.New(t)

		driver, dbMock, err := sqlmock.New()
		if !assert.NoError(err) {
			return
		}

		repo := EntityStore{DB: driver, Table: "entities", Spec: testSpec}

		dbMock.
			ExpectExec("UPDATE entities SET").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.Update(context.Background(), "no such id", rowjam.MapEntity{
			"name": "renamed",
		})

		assert.ErrorIs(err, rowjam.ErrNotFound)
	})
}

func Test_Delete(t *testing.T) {
	assert := assert.New(t)

	driver, dbMock, err := sqlmock.New()
	if !assert.NoError(err) {
		return
	}

	repo := EntityStore{DB: driver, Table: "entities", Spec: testSpec}

	dbMock.
		ExpectQuery("SELECT .* FROM entities").
		WithArgs("some-id").
		WillReturnRows(sqlmock.NewRows([]string{
			"active", "count", "name", rowjam.HintColumn,
		}).AddRow(
			nil, nil, "doomed", nil,
		))

	dbMock.
		ExpectExec("DELETE FROM entities").
		WithArgs("some-id").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ent, err := repo.Delete(context.Background(), "some-id", rowjam.MapEntity{})

	if !assert.NoError(err) {
		return
	}
	assert.Equal("doomed", ent.Value("name"))
	assert.NoError(dbMock.ExpectationsWereMet())
}
