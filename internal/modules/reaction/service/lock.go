package reaction

import (
	"context"
	"fmt"
	"log"
	"time"

	"anoa.com/reactions/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it still holds our token, so a
// request that outlived its TTL cannot free someone else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func voteLockKey(instanceID, userID uuid.UUID) string {
	return fmt.Sprintf("lock:vote:%s:%s", instanceID, userID)
}

// acquireVoteLock serializes vote submissions of one user on one instance.
// Without redis, or when redis fails, it returns a no-op release and the
// conditional update in the repository is the only guard.
func acquireVoteLock(ctx context.Context, rdb *redis.Client, instanceID, userID uuid.UUID, ttl time.Duration) (func(), error) {
	noop := func() {}
	if rdb == nil {
		return noop, nil
	}

	key := voteLockKey(instanceID, userID)
	token := uuid.NewString()

	wasSet, err := rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		log.Printf("vote lock unavailable for %s: %v", key, err)
		return noop, nil
	}
	if !wasSet {
		return nil, apperror.ErrVoteInProgress
	}

	return func() {
		if err := releaseScript.Run(context.Background(), rdb, []string{key}, token).Err(); err != nil {
			log.Printf("failed to release vote lock %s: %v", key, err)
		}
	}, nil
}
