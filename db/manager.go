package db

import (
	"context"
	"fmt"
	"log"
	"tattoola/config"
	"tattoola/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

var ORM *gorm.DB

// resolverEnabled - true если зарегистрированы реплики и dbresolver подключен
var resolverEnabled bool

func dsnFromConfig(dbConf config.DBConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.Port, dbConf.User, dbConf.Password, dbConf.DBName,
	)
}

func ConnectDB() (err error) {
	if ORM != nil {
		log.Println("ORM is already initialized")
		return nil
	}

	var conf = config.AppConfig
	if conf == nil {
		return fmt.Errorf("AppConfig is not loaded")
	}

	if conf.Databases.SQLitePath != "" {
		db, err := OpenSQLite(conf.Databases.SQLitePath)
		if err != nil {
			return err
		}
		ORM = db
		return nil
	}

	if conf.Databases.Master.Host == "" {
		return fmt.Errorf("master database configuration is missing")
	}

	masterDSN := dsnFromConfig(conf.Databases.Master)
	replicaDSNs := make([]gorm.Dialector, 0, len(conf.Databases.Replicas))
	for _, r := range conf.Databases.Replicas {
		replicaDSNs = append(replicaDSNs, postgres.Open(dsnFromConfig(r)))
	}

	db, err := gorm.Open(postgres.Open(masterDSN), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
			NoLowerCase:   false,
		},
	})
	if err != nil {
		return err
	}

	if len(replicaDSNs) > 0 {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicaDSNs,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return
		}
		resolverEnabled = true
	}

	if err = Migrate(db); err != nil {
		return err
	}

	ORM = db
	return nil
}

// OpenSQLite открывает sqlite базу и применяет миграции. dsn ":memory:" не
// подходит для пула соединений, для памяти нужен "file:name?mode=memory&cache=shared"
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite не любит параллельную запись, одна сессия за раз
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate создает таблицы и индексы. Используется и для sqlite в тестах
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.UserTokens{},
		&models.Follow{},
		&models.Post{},
		&models.PostMedia{},
		&models.PostLike{},
		&models.ArtistProfile{},
		&models.PortfolioProject{},
		&models.Studio{},
		&models.StudioFAQ{},
		&models.TattooRequest{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return CreateFeedIndexes(db)
}

// GetReadOnlyDB возвращает подключение для чтения (слейвы)
func GetReadOnlyDB(ctx context.Context) *gorm.DB {
	if !resolverEnabled {
		return ORM.WithContext(ctx)
	}
	return ORM.WithContext(ctx).Clauses(dbresolver.Read)
}

// GetWriteDB возвращает подключение для записи (мастер)
func GetWriteDB(ctx context.Context) *gorm.DB {
	if !resolverEnabled {
		return ORM.WithContext(ctx)
	}
	return ORM.WithContext(ctx).Clauses(dbresolver.Write)
}
