package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"

	"tattoola/client"
	"tattoola/store"
)

type Stats struct {
	TotalOps      int64
	FailedOps     int64
	TotalDuration int64
}

type Config struct {
	BaseURL  string
	Email    string
	Password string
	Register bool
	PageSize int
	Pages    int
	LikeAt   int
	Post     string
	Watch    time.Duration
	Workers  int
	Duration int
}

var (
	stats Stats
)

func main() {
	config := parseFlags()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received interrupt signal, shutting down...")
		cancel()
	}()

	api := client.New(config.BaseURL)
	if config.Register {
		if _, err := api.Register(ctx, config.Email, config.Password); err != nil {
			log.Printf("ERROR: register failed: %v", err)
		}
	}
	user, err := api.Login(ctx, config.Email, config.Password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	log.Printf("Logged in as %s (%s)", user.Username, user.ID)

	if config.Post != "" {
		post, err := api.CreatePost(ctx, config.Post, nil)
		if err != nil {
			log.Fatalf("Create post failed: %v", err)
		}
		log.Printf("Created post %s", post.ID)
	}

	if config.Workers > 0 {
		runLoad(ctx, api, user.ID, config)
		return
	}

	feed := store.NewFeedStore(api, config.PageSize)
	unsubscribe := feed.Subscribe(func() {
		if feed.IsLoading() || feed.IsRefreshing() {
			log.Printf("DEBUG: loading... (%d posts)", len(feed.Posts()))
		}
	})
	defer unsubscribe()

	feed.LoadInitial(ctx, user.ID)
	for page := 1; page < config.Pages && feed.HasMore(); page++ {
		feed.LoadMore(ctx, user.ID)
	}
	printFeed(feed)

	if config.LikeAt >= 0 {
		posts := feed.Posts()
		if config.LikeAt >= len(posts) {
			log.Fatalf("No post at index %d (feed has %d)", config.LikeAt, len(posts))
		}
		target := posts[config.LikeAt]
		feed.ToggleLikeOptimistic(ctx, target.ID, user.ID)
		if p, ok := feed.Post(target.ID); ok {
			log.Printf("Post %s: liked=%t likes=%d", p.ID, p.IsLiked, p.LikesCount)
		}
	}

	if config.Watch > 0 {
		watchFeed(ctx, api, feed, config.Watch)
	}
}

func parseFlags() Config {
	config := Config{}

	flag.StringVar(&config.BaseURL, "url", "http://localhost:8080", "Backend URL")
	flag.StringVar(&config.Email, "email", "", "Account email")
	flag.StringVar(&config.Password, "password", "", "Account password")
	flag.BoolVar(&config.Register, "register", false, "Register the account before login")
	flag.IntVar(&config.PageSize, "limit", store.DefaultPageSize, "Feed page size")
	flag.IntVar(&config.Pages, "pages", 1, "How many feed pages to load")
	flag.IntVar(&config.LikeAt, "like", -1, "Toggle like on the post with this index (-1 to skip)")
	flag.StringVar(&config.Post, "post", "", "Create a post with this caption before loading the feed")
	flag.DurationVar(&config.Watch, "watch", 0, "Listen for live feed events for this long")
	flag.IntVar(&config.Workers, "workers", 0, "Load mode: number of concurrent workers")
	flag.IntVar(&config.Duration, "duration", 30, "Load mode: test duration in seconds")

	flag.Parse()
	if config.Email == "" || config.Password == "" {
		flag.Usage()
		os.Exit(2)
	}
	return config
}

func printFeed(feed *store.FeedStore) {
	posts := feed.Posts()
	log.Printf("Feed: %d posts, has more: %t", len(posts), feed.HasMore())
	for i, p := range posts {
		liked := " "
		if p.IsLiked {
			liked = "*"
		}
		fmt.Printf("%3d %s %s @%-20s %4d likes  %s\n",
			i, liked, p.CreatedAt.Local().Format(time.DateTime), p.Author.Username, p.LikesCount, p.Caption)
	}
}

// watchFeed применяет живые события к стору ленты
func watchFeed(ctx context.Context, api *client.Client, feed *store.FeedStore, d time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	err := api.WatchFeed(ctx, func(e client.FeedEvent) {
		switch e.Event {
		case "feed_posted":
			if e.Post != nil {
				feed.UpsertPost(*e.Post)
				log.Printf("New post %s by @%s: %s", e.Post.ID, e.Post.Author.Username, e.Post.Caption)
			}
		case "feed_deleted":
			if feed.RemovePost(e.PostID) {
				log.Printf("Post %s removed", e.PostID)
			}
		case "connected":
			log.Printf("Watching feed for %s", d)
		default:
			if e.Message != "" {
				log.Printf("[%s] %s", e.NotifyType, e.Message)
			}
		}
	})
	if err != nil && ctx.Err() == nil {
		log.Printf("ERROR: feed socket closed: %v", err)
	}
	printFeed(feed)
}

// runLoad - нагрузочный режим: каждый воркер листает свою ленту и ставит лайки
func runLoad(ctx context.Context, api *client.Client, viewerID uuid.UUID, config Config) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(config.Duration)*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go worker(ctx, i, api, viewerID, config.PageSize, &wg)
	}

	go printStats(ctx)
	wg.Wait()
	printFinalStats()
}

func worker(ctx context.Context, id int, api *client.Client, viewerID uuid.UUID, pageSize int, wg *sync.WaitGroup) {
	defer wg.Done()

	feed := store.NewFeedStore(api, pageSize)
	operations := []string{"refresh", "load_more", "toggle_like"}

	for ctx.Err() == nil {
		operation := operations[rand.Intn(len(operations))]
		start := time.Now()
		failed := false

		switch operation {
		case "refresh":
			feed.Refresh(ctx, viewerID)
		case "load_more":
			if !feed.HasMore() {
				feed.LoadInitial(ctx, viewerID)
			} else {
				feed.LoadMore(ctx, viewerID)
			}
		case "toggle_like":
			posts := feed.Posts()
			if len(posts) == 0 {
				continue
			}
			target := posts[rand.Intn(len(posts))]
			feed.ToggleLikeOptimistic(ctx, target.ID, viewerID)
			if p, ok := feed.Post(target.ID); ok && p.IsLiked == target.IsLiked {
				// состояние не поменялось - запрос откатился
				failed = true
			}
		}

		atomic.AddInt64(&stats.TotalOps, 1)
		atomic.AddInt64(&stats.TotalDuration, time.Since(start).Milliseconds())
		if failed {
			atomic.AddInt64(&stats.FailedOps, 1)
		}
	}
	log.Printf("Worker %d stopping with %d posts loaded", id, len(feed.Posts()))
}

func printStats(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			total, failed, avgLatency := snapshot()
			log.Printf("[STATS] Total: %d | Failed likes: %d | Avg Latency: %dms", total, failed, avgLatency)
		}
	}
}

func snapshot() (int64, int64, int64) {
	total := atomic.LoadInt64(&stats.TotalOps)
	failed := atomic.LoadInt64(&stats.FailedOps)
	var avgLatency int64
	if total > 0 {
		avgLatency = atomic.LoadInt64(&stats.TotalDuration) / total
	}
	return total, failed, avgLatency
}

func printFinalStats() {
	total, failed, avgLatency := snapshot()
	log.Println("========== FINAL STATISTICS ==========")
	log.Printf("Total Operations:   %d", total)
	log.Printf("Failed Likes:       %d", failed)
	log.Printf("Average Latency:    %dms", avgLatency)
	log.Println("======================================")
}
