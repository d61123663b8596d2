package repomanager

import (
	"context"
	"database/sql"

	"github.com/sarkie/sarkie-backend/internal/dbx"
	"github.com/sarkie/sarkie-backend/internal/server/repositories/conversations"
	"github.com/sarkie/sarkie-backend/internal/server/repositories/effects"
	"github.com/sarkie/sarkie-backend/internal/server/repositories/memories"
	"github.com/sarkie/sarkie-backend/internal/server/repositories/supplements"
	"github.com/sarkie/sarkie-backend/internal/server/repositories/users"
	"github.com/sarkie/sarkie-backend/internal/server/repositories/verificationcodes"
)

// RepositoryManager vends repositories bound to either the pool or a
// transaction, so services can group writes with dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	VerificationCodes(db dbx.DBTX) verificationcodes.Repository
	Supplements(db dbx.DBTX) supplements.Repository
	Effects(db dbx.DBTX) effects.Repository
	Conversations(db dbx.DBTX) conversations.Repository
	Memories(db dbx.DBTX) memories.Repository
}
