package main

import (
	"partyhub.app/configs"
	"partyhub.app/configs/configsdatabase"
	"partyhub.app/configs/configslog"
	"partyhub.app/pkg/responses"
	"partyhub.app/routes"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	configs.LoadEnv()
	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	app := fiber.New(fiber.Config{
		AppName: "partyhub",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}
			if code == fiber.StatusInternalServerError {
				configslog.Log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
				message = "internal server error"
			}
			return responses.Error(c, code, message)
		},
	})

	routes.SetupRoutes(app)

	addr := configs.ListenAddr()
	configslog.SLog.Infof("listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		configslog.Log.Fatal("server stopped", zap.Error(err))
	}
}
