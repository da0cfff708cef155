package dialect_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/sqldialect-go/dialect"
	. "github.com/AntonStoeckl/sqldialect-go/testutil/helper" //nolint:revive
)

func postgresLikeProfile() dialect.Profile {
	p := validProfile()
	p.Schemas = dialect.SchemaSQL{
		QueryDialect:  "postgres",
		CatalogSchema: "information_schema",
		CatalogTable:  "schemata",
		NameColumn:    "schema_name",
		Create:        "CREATE SCHEMA %s",
	}

	return p
}

func Test_Schema_ShouldRenderQuotedNames(t *testing.T) {
	schema := dialect.NewSchema(nil, nil, validProfile(), `my"app`)

	assert.Equal(t, `my"app`, schema.Name())
	assert.Equal(t, `"my""app"`, schema.Quoted())
	assert.Equal(t, `"my""app"."orders"`, schema.Table("orders"))
	assert.Equal(t, schema.Quoted(), schema.String())
}

func Test_Schema_TwoHandlesForTheSameName_ShouldBeEquivalent(t *testing.T) {
	session := NewFakeSession()

	first := dialect.NewSchema(nil, session, validProfile(), "APP")
	second := dialect.NewSchema(nil, session, validProfile(), "APP")

	assert.Equal(t, first, second)
	assert.Equal(t, first.Table("t"), second.Table("t"))
}

func Test_Schema_ExistsQuery_ShouldUseTheProductPlaceholderStyle(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		pattern string
	}{
		{
			name:    "postgres",
			dialect: "postgres",
			pattern: `^SELECT COUNT\(\*\) FROM "information_schema"\."schemata" WHERE \(?"schema_name" = \$1\)?$`,
		},
		{
			name:    "mysql",
			dialect: "mysql",
			pattern: "^SELECT COUNT\\(\\*\\) FROM `information_schema`\\.`schemata` WHERE \\(?`schema_name` = \\?\\)?$",
		},
		{
			name:    "sqlserver",
			dialect: "sqlserver",
			pattern: `@p1`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := postgresLikeProfile()
			p.Schemas.QueryDialect = tc.dialect

			query, args, err := dialect.NewSchema(nil, nil, p, "app").ExistsQuery()

			require.NoError(t, err)
			assert.Regexp(t, tc.pattern, query)
			assert.Equal(t, []any{"app"}, args)
		})
	}
}

func Test_Schema_Exists(t *testing.T) {
	ctx := context.Background()
	p := postgresLikeProfile()
	query, _, err := dialect.NewSchema(nil, nil, p, "app").ExistsQuery()
	require.NoError(t, err)

	present := NewFakeSession().OnQueryValue(query, int64(1))
	exists, err := dialect.NewSchema(nil, present, p, "app").Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	absent := NewFakeSession().OnQueryValue(query, int64(0))
	exists, err = dialect.NewSchema(nil, absent, p, "app").Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	failing := NewFakeSession().OnQueryError(query, errors.New("permission denied"))
	_, err = dialect.NewSchema(nil, failing, p, "app").Exists(ctx)
	assert.ErrorIs(t, err, dialect.ErrSchemaQueryFailed)
}

func Test_Schema_Exists_ShouldFail_WithoutCatalog(t *testing.T) {
	p := postgresLikeProfile()
	p.Schemas.CatalogTable = ""

	_, err := dialect.NewSchema(nil, NewFakeSession(), p, "app").Exists(context.Background())

	assert.ErrorIs(t, err, dialect.ErrOperationNotSupported)
}

func Test_Schema_CreateAndDrop(t *testing.T) {
	ctx := context.Background()
	session := NewFakeSession()
	schema := dialect.NewSchema(nil, session, postgresLikeProfile(), "app")

	require.NoError(t, schema.Create(ctx))
	assert.Equal(t, []string{`CREATE SCHEMA "app"`}, session.Executed())

	assert.ErrorIs(t, schema.Drop(ctx), dialect.ErrOperationNotSupported)
}

func Test_Schema_Create_ShouldWrapBackendFailures(t *testing.T) {
	session := NewFakeSession().OnExecError(`CREATE SCHEMA "app"`, errors.New("already exists"))

	err := dialect.NewSchema(nil, session, postgresLikeProfile(), "app").Create(context.Background())

	assert.ErrorIs(t, err, dialect.ErrSchemaQueryFailed)
	assert.ErrorContains(t, err, "already exists")
}

func Test_Schema_ShouldFail_WhenUnbound(t *testing.T) {
	schema := dialect.NewSchema(nil, nil, postgresLikeProfile(), "app")

	_, err := schema.Exists(context.Background())
	assert.ErrorIs(t, err, dialect.ErrUnboundAdapter)
	assert.ErrorIs(t, schema.Create(context.Background()), dialect.ErrUnboundAdapter)
}
