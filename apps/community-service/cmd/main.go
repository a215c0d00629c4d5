package main

import (
	"context"

	"github.com/gin-gonic/gin"

	"famnest/apps/community-service/dao"
	"famnest/apps/community-service/handler"
	"famnest/apps/community-service/model"
	"famnest/apps/community-service/service"
	"famnest/pkg/server"
	"famnest/pkg/snowflake"
)

func main() {
	// 创建应用程序
	app := server.NewApplication("community-service")

	// 启用HTTP服务器
	app.EnableHTTP()

	// 初始化ID生成器
	if err := snowflake.InitGlobalSnowflake(1); err != nil {
		panic("Failed to init snowflake: " + err.Error())
	}

	// 初始化PostgreSQL连接并迁移表结构
	postgreSQL := app.GetPostgreSQL()
	if err := postgreSQL.AutoMigrate(
		&model.Comment{},
		&model.Report{},
	); err != nil {
		panic("Failed to migrate database: " + err.Error())
	}

	// 初始化DAO层
	commentDAO := dao.NewCommentDAO(postgreSQL)
	reportDAO := dao.NewReportDAO(postgreSQL)
	auditDAO := dao.NewAuditLogDAO(app.GetMongoDB().GetDatabase())
	searchDAO := dao.NewSearchDAO(app.GetElasticSearch().GetClient(), app.GetLogger())

	// 确保搜索索引存在
	if err := searchDAO.EnsureIndex(context.Background()); err != nil {
		panic("Failed to ensure search index: " + err.Error())
	}

	// 初始化Service层
	svc := service.NewService(
		commentDAO,
		reportDAO,
		auditDAO,
		searchDAO,
		app.GetRedisClient(),
		app.GetKafkaProducer(),
		app.GetLogger(),
	)

	// 初始化Handler
	httpHandler := handler.NewHTTPHandler(svc, app.GetLogger())
	reviewHandler := handler.NewReviewHandler(svc, app.GetLogger())

	// 注册HTTP路由
	app.RegisterHTTPRoutes(func(engine *gin.Engine) {
		httpHandler.RegisterRoutes(engine)
		reviewHandler.RegisterRoutes(engine, app.GetAuthMiddleware())
	})

	// 运行应用程序
	if err := app.Run(); err != nil {
		panic(err)
	}
}
