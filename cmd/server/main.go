// Lynkup chat server: REST API plus the realtime presence and messaging
// layer over WebSockets.
//
// @title        Lynkup Chat API
// @version      1.0
// @description  Real-time chat: direct and group messaging, presence, typing indicators, read receipts.
// @BasePath     /
package main

import "github.com/regulus1128/lynkup-chat-app/internal/app"

func main() {
	app.Run()
}
