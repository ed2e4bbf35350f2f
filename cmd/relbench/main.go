package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/socialgraph/config"
	"github.com/d60-Lab/socialgraph/internal/model"
	"github.com/d60-Lab/socialgraph/internal/repository"
	"github.com/d60-Lab/socialgraph/internal/service"
	"github.com/d60-Lab/socialgraph/pkg/database"
	"github.com/d60-Lab/socialgraph/pkg/logger"
	"github.com/d60-Lab/socialgraph/pkg/monitor"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// pct 取分位数
func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

// timed 用 workers 个 goroutine 跑 n 次 op，返回总耗时与每次耗时
func timed(n, workers int, op func(i int)) (time.Duration, []time.Duration) {
	if workers > n {
		workers = n
	}
	feed := make(chan int, n)
	for i := 0; i < n; i++ {
		feed <- i
	}
	close(feed)

	recs := make([]time.Duration, n)
	var wg sync.WaitGroup
	t0 := time.Now()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range feed {
				st := time.Now()
				op(i)
				recs[i] = time.Since(st)
			}
		}()
	}
	wg.Wait()
	return time.Since(t0), recs
}

func report(name string, total time.Duration, recs []time.Duration) {
	per := time.Duration(0)
	if len(recs) > 0 {
		per = total / time.Duration(len(recs))
	}
	fmt.Printf("%s total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
		name, total, per, pct(recs, 0.50), pct(recs, 0.95), pct(recs, 0.99))
}

func main() {
	cfg := must(config.Load())
	if err := logger.Init(cfg.Log); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	flush := must(monitor.InitSentry(cfg.Sentry, cfg.App.Name+"-relbench"))
	defer flush()
	shutdown := must(monitor.InitTracer(context.Background(), cfg.Tracing))
	defer func() { _ = shutdown(context.Background()) }()

	db := must(database.InitDB(cfg))
	defer func() { _ = database.Close(db) }()

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)
	relSvc := service.NewRelationshipService(followRepo, cfg.Relations.AllowSelfFollow)

	ctx := context.Background()

	N := envInt("N", 10000)
	CONC := envInt("CONC", 1)
	PAGE := envInt("PAGE", 50)
	POSTS := envInt("POSTS", 10)

	// seed users: celeb 被其余所有人关注
	tag := uuid.NewString()[:8]
	celeb := &model.User{Username: "celeb-" + tag, Email: "celeb-" + tag + "@example.com", PasswordHash: "p"}
	if err := userRepo.Create(ctx, celeb); err != nil {
		panic(err)
	}
	users := make([]model.User, N)
	for i := range users {
		id := uuid.NewString()
		users[i] = model.User{Username: "u" + id, Email: id + "@example.com", PasswordHash: "p"}
	}
	if err := db.CreateInBatches(&users, 1000).Error; err != nil {
		panic(err)
	}
	logger.Info("seeded users", zap.Int("n", N), zap.Uint("celeb_id", celeb.ID))

	followDur, followRecs := timed(N, CONC, func(i int) {
		if err := relSvc.Follow(ctx, users[i].ID, celeb.ID); err != nil {
			logger.Warn("follow failed", zap.Error(err))
		}
	})
	backDur, backRecs := timed(N, CONC, func(i int) {
		if err := followRepo.Create(ctx, celeb.ID, users[i].ID); err != nil {
			logger.Warn("follow back failed", zap.Error(err))
		}
	})

	q0 := time.Now()
	_, _ = relSvc.ListFollowers(ctx, celeb.ID, 1, PAGE)
	fansDur := time.Since(q0)
	q1 := time.Now()
	_, _ = relSvc.ListFollowing(ctx, celeb.ID, 1, PAGE)
	follDur := time.Since(q1)
	q2 := time.Now()
	fanCnt, _ := followRepo.CountFollowers(ctx, celeb.ID)
	cntDur := time.Since(q2)

	posts := make([]*model.Post, POSTS)
	for i := range posts {
		posts[i] = &model.Post{UserID: celeb.ID, ContentURL: "https://cdn.example.com/" + uuid.NewString() + ".jpg"}
		if err := postRepo.Create(ctx, posts[i]); err != nil {
			panic(err)
		}
	}
	likeDur, likeRecs := timed(N, CONC, func(i int) {
		if _, err := likeRepo.Create(ctx, users[i].ID, posts[i%POSTS].ID); err != nil {
			logger.Warn("like failed", zap.Error(err))
		}
	})
	commentDur, commentRecs := timed(N, CONC, func(i int) {
		c := &model.Comment{UserID: users[i].ID, PostID: posts[i%POSTS].ID, Content: "nice"}
		if err := commentRepo.Create(ctx, c); err != nil {
			logger.Warn("comment failed", zap.Error(err))
		}
	})

	// 删除 celeb：级联删除其帖子及帖子上的全部评论、点赞，以及两个方向的关注边
	d0 := time.Now()
	if err := userRepo.Delete(ctx, celeb.ID); err != nil {
		panic(err)
	}
	cascadeDur := time.Since(d0)
	leftFollows, _ := followRepo.CountFollowers(ctx, celeb.ID)
	leftComments, _ := commentRepo.Count(ctx)

	fmt.Printf("N=%d, CONC=%d, PAGE=%d, POSTS=%d, driver=%s\n", N, CONC, PAGE, POSTS, cfg.Database.Driver)
	report("Follow (service)", followDur, followRecs)
	report("Follow back (repository)", backDur, backRecs)
	fmt.Printf("Query followers(%d) latency: %v\n", PAGE, fansDur)
	fmt.Printf("Query following(%d) latency: %v\n", PAGE, follDur)
	fmt.Printf("Count followers=%d latency: %v\n", fanCnt, cntDur)
	report("Like", likeDur, likeRecs)
	report("Comment", commentDur, commentRecs)
	fmt.Printf("Cascade delete of celeb: %v (followers left=%d, comments left=%d)\n", cascadeDur, leftFollows, leftComments)
}
