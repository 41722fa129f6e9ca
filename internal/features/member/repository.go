package member

import (
	"studentz/internal/config"
	"studentz/internal/database"
	"studentz/internal/store"
)

type MemberRepository = store.Store[Member]

func NewMemberRepository(db *database.MongodbDB, cfg *config.Config) MemberRepository {
	return store.NewMongoStore[Member](db.DB.Collection("members"), "memberId", cfg.StoreTimeout)
}
