package handlers

import (
	"log/slog"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/epokowo/epokowo-service/internal/services"
)

type HandlerManager struct {
	contentHandler *ContentHandler
	quizHandler    *QuizHandler
	messageHandler *MessageHandler
	bookingHandler *BookingHandler
	editorHandler  *EditorHandler
	userHandler    *UserHandler

	authClient  *casdoorsdk.Client
	userService services.UserService
	logger      *slog.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	authClient *casdoorsdk.Client,
	logger *slog.Logger,
) *HandlerManager {
	return &HandlerManager{
		contentHandler: NewContentHandler(serviceManager.Content(), logger),
		quizHandler:    NewQuizHandler(serviceManager.Quiz(), serviceManager.Content(), logger),
		messageHandler: NewMessageHandler(serviceManager.Message(), logger),
		bookingHandler: NewBookingHandler(serviceManager.Booking(), logger),
		editorHandler:  NewEditorHandler(serviceManager.Editor(), serviceManager.Export(), logger),
		userHandler:    NewUserHandler(serviceManager.User(), logger),
		authClient:     authClient,
		userService:    serviceManager.User(),
		logger:         logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.Use(RequestLogger(hm.logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "epokowo-service",
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(Authenticate(hm.authClient, hm.userService))
	{
		// Content tree
		epochs := v1.Group("/epochs")
		{
			epochs.GET("", hm.contentHandler.ListEpochs)
			epochs.GET("/:slug", hm.contentHandler.GetEpoch)
			epochs.GET("/:slug/lessons", hm.contentHandler.ListLessons)
		}

		lessons := v1.Group("/lessons")
		{
			lessons.GET("/:id", hm.contentHandler.GetLesson)
			lessons.GET("/:id/quiz", hm.quizHandler.GetQuiz)
			lessons.POST("/:id/quiz/results", hm.quizHandler.SubmitResult)
			lessons.POST("/:id/quiz/session", hm.quizHandler.StartSession)
		}

		// Server-tracked test player
		sessions := v1.Group("/quiz-sessions")
		{
			sessions.POST("/:id/answers", hm.quizHandler.AnswerCurrent)
			sessions.POST("/:id/advance", hm.quizHandler.Advance)
			sessions.POST("/:id/reset", hm.quizHandler.ResetSession)
		}

		v1.GET("/results/me", hm.quizHandler.GetMyResults)

		// Messaging
		messages := v1.Group("/messages")
		{
			messages.POST("", hm.messageHandler.Send)
			messages.GET("/unread-count", hm.messageHandler.UnreadCount)
			messages.GET("/badge/stream", hm.messageHandler.StreamBadge)
			messages.POST("/:id/read", hm.messageHandler.MarkRead)
		}
		conversations := v1.Group("/conversations")
		{
			conversations.GET("/:user_id", hm.messageHandler.Conversation)
			conversations.POST("/:user_id/read", hm.messageHandler.MarkConversationRead)
		}

		// Exam calendar
		v1.GET("/exam-slots", hm.bookingHandler.ListSlots)
		v1.POST("/exam-slots/:id/bookings", hm.bookingHandler.Book)
		v1.GET("/bookings/me", hm.bookingHandler.MyBookings)
		v1.DELETE("/bookings/:id", hm.bookingHandler.Cancel)

		// Profiles
		v1.GET("/users/me", hm.userHandler.Me)
		v1.GET("/users/:id", hm.userHandler.GetUser)

		// Admin editor
		admin := v1.Group("/admin")
		admin.Use(RequireAdmin())
		{
			admin.POST("/epochs", hm.editorHandler.CreateEpoch)
			admin.PUT("/epochs/:id", hm.editorHandler.UpdateEpoch)
			admin.DELETE("/epochs/:id", hm.editorHandler.DeleteEpoch)

			admin.POST("/lessons", hm.editorHandler.CreateLesson)
			admin.PUT("/lessons/:id", hm.editorHandler.UpdateLesson)
			admin.DELETE("/lessons/:id", hm.editorHandler.DeleteLesson)
			admin.POST("/lessons/:id/publish", hm.editorHandler.PublishLesson)

			admin.POST("/lessons/:id/blocks", hm.editorHandler.CreateBlock)
			admin.PUT("/blocks/:id", hm.editorHandler.UpdateBlock)
			admin.DELETE("/blocks/:id", hm.editorHandler.DeleteBlock)

			admin.POST("/lessons/:id/questions", hm.editorHandler.CreateQuestion)
			admin.PUT("/questions/:id", hm.editorHandler.UpdateQuestion)
			admin.DELETE("/questions/:id", hm.editorHandler.DeleteQuestion)

			admin.GET("/lessons/:id/results/export", hm.editorHandler.ExportResults)
			admin.POST("/lessons/:id/questions/import", hm.editorHandler.ImportQuestions)

			admin.POST("/exam-slots", hm.bookingHandler.CreateSlot)
			admin.DELETE("/exam-slots/:id", hm.bookingHandler.DeleteSlot)

			admin.GET("/users", hm.userHandler.ListUsers)
		}
	}
}
