package routes

import "github.com/kataras/iris/v12"

// Notification endpoints are placeholders carried over from the client
// contract; there is no notification storage yet.

func GetAllNotifications(ctx iris.Context) {
	ctx.JSON(iris.Map{"message": "All notifications"})
}

func MarkNotificationRead(ctx iris.Context) {
	ctx.JSON(iris.Map{"message": "Notification read"})
}
