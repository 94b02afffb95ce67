package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mingoserver/bingo"    //ビンゴの盤面生成・勝利判定・申請ロジック
	"mingoserver/database" //PostgreSQLとRedisの初期化
	"mingoserver/models"   //モデル定義
	"mingoserver/screens"  //フロントの画面構成に関連するHTTPリクエストの処理
	"mingoserver/utils"    //ロガーの初期化とCronジョブ(PostgreSQLの定期クリーンナップ)

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

func main() {
	var logger *zap.Logger
	var err error
	logger, err = utils.InitLogger() // ロガーの初期化
	if err != nil {
		panic(err) // 失敗した場合はプログラム停止
	}
	defer logger.Sync() // ロガーのクリーンアップ

	// 非同期でPostgreSQLとRedisの初期化
	var config models.Config
	var db *gorm.DB
	var rdb *redis.Client
	done := make(chan bool)

	go func() {
		var err error
		config, err = database.LoadConfig("config.json")
		if err != nil {
			logger.Fatal("設定ファイルの読み込みに失敗しました", zap.Error(err))
		}
		db, err = database.InitPostgreSQL(config, logger)
		if err != nil {
			logger.Fatal("PostgreSQLの初期化に失敗しました", zap.Error(err))
		}
		done <- true
	}()

	go func() {
		var err error
		rdb, err = database.InitRedis(logger)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", zap.Error(err))
		}
		done <- true
	}()

	// 2つの初期化が完了するのを待つ
	<-done
	<-done

	// クーロンスケジューラのセットアップと呼び出し
	go utils.CronCleaner(db, logger)

	// 申請サイクルの設定値。未設定ならロジック側の既定値を使う
	cooldown := time.Duration(config.ClaimCooldownSeconds) * time.Second
	if cooldown <= 0 {
		cooldown = bingo.DefaultClaimCooldown
	}
	pollInterval := time.Duration(config.PollIntervalSeconds) * time.Second
	if pollInterval <= 0 {
		pollInterval = bingo.DefaultPollInterval
	}

	// pending申請数のキャッシュをバックグラウンドで更新し続ける
	pollCtx, stopPoller := context.WithCancel(context.Background())
	defer stopPoller()
	poller := &bingo.Poller{
		Interval: pollInterval,
		Tick: func(ctx context.Context) {
			database.RefreshPendingWins(ctx, db, rdb, logger)
		},
	}
	go poller.Run(pollCtx)

	router := gin.Default()
	// dbとrdbを全てのリクエストで利用できるようにする
	router.Use(func(c *gin.Context) {
		c.Set("db", db)
		c.Set("rdb", rdb)
		c.Next()
	})
	//リクエストロガーを起動
	router.Use(gin.Recovery(), utils.RequestLogger(logger))

	//CORS（Cross-Origin Resource Sharing）ポリシーを設定
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://192.168.1.1:8080"}, //ここにデプロイサーバーのIPアドレスを設定
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	//各HTTPリクエストのルーティング
	router.POST("/auth/login", func(c *gin.Context) {
		screens.LoginHandler(c, db, logger)
	})
	router.GET("/home", func(c *gin.Context) {
		screens.HomeHandler(c, db, rdb, logger)
	})
	router.POST("/game/create", func(c *gin.Context) {
		screens.CreateGame(c, db, rdb, logger)
	})
	router.POST("/game/join", func(c *gin.Context) {
		screens.JoinGame(c, db, logger)
	})
	router.DELETE("/game", func(c *gin.Context) {
		screens.EndGameHandler(c, db, rdb, logger)
	})
	router.GET("/board", func(c *gin.Context) {
		screens.LoadBoardState(c, db, logger)
	})
	router.PUT("/board", func(c *gin.Context) {
		screens.SaveBoardState(c, db, logger)
	})
	router.POST("/board/new", func(c *gin.Context) {
		screens.NewBoard(c, db, rdb, logger)
	})
	router.POST("/claims", func(c *gin.Context) {
		screens.SubmitClaim(c, db, rdb, cooldown, logger)
	})
	router.GET("/claims/pending", func(c *gin.Context) {
		screens.PendingClaims(c, db, logger)
	})
	router.PUT("/claims/resolve", func(c *gin.Context) {
		screens.ResolveClaim(c, db, rdb, logger)
	})
	router.GET("/claims/status", func(c *gin.Context) {
		screens.ClaimStatus(c, db, logger)
	})
	router.POST("/image", func(c *gin.Context) {
		screens.UploadImage(c, logger)
	})

	//サーバーを起動
	if err := router.Run(":8080"); err != nil {
		logger.Fatal("サーバーの起動に失敗しました", zap.Error(err))
	}
}
