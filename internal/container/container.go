package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/careerpath/careerpath-api/config"
	"github.com/careerpath/careerpath-api/pkg/generator"
	"github.com/careerpath/careerpath-api/pkg/helpers"
	"github.com/careerpath/careerpath-api/pkg/mailer"
)

// app-level container to share constructed components across packages.
// Router can auto-wire modules from these singletons; everything is set
// exactly once in cmd/main.go at startup.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	jwtManager  *helpers.JWTManager
	mailPub     *mailer.Publisher
	esClient    *elasticsearch.Client
	genClient   *generator.Client
)

func SetConfig(c *config.Config)        { cfg = c }
func GetConfig() *config.Config         { return cfg }
func SetLogger(l *logrus.Logger)        { logger = l }
func GetLogger() *logrus.Logger         { return logger }
func SetPGPool(p *pgxpool.Pool)         { pgPool = p }
func GetPGPool() *pgxpool.Pool          { return pgPool }
func SetRedis(r *redis.Client)          { redisClient = r }
func GetRedis() *redis.Client           { return redisClient }
func SetJWT(m *helpers.JWTManager)      { jwtManager = m }
func GetJWT() *helpers.JWTManager       { return jwtManager }
func SetMailPub(p *mailer.Publisher)    { mailPub = p }
func GetMailPub() *mailer.Publisher     { return mailPub }
func SetES(c *elasticsearch.Client)     { esClient = c }
func GetES() *elasticsearch.Client      { return esClient }
func SetGenerator(g *generator.Client)  { genClient = g }
func GetGenerator() *generator.Client   { return genClient }
