package routes

import (
	"maintenance-system/internal/authz"
	"maintenance-system/internal/controllers"
	"maintenance-system/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runBaseProtocolRouter(secureGroup *echo.Group, ctrl *controllers.BaseProtocolController, authMW *middleware.AuthMiddleware) {
	view := authMW.AuthorizeAny(authz.ProtocolsView)
	manage := authMW.AuthorizeAny(authz.ProtocolsManage)
	unlink := authMW.AuthorizeAny(authz.EquipmentUnlink)

	protocols := secureGroup.Group("/base-protocols")
	{
		protocols.GET("", ctrl.GetProtocols, view)
		protocols.GET("/equipment", ctrl.GetClassification, view)
		protocols.GET("/equipment/export", ctrl.ExportClassification, view)
		protocols.POST("/equipment/:id/unlink", ctrl.UnlinkEquipment, unlink)
		protocols.POST("/equipment/:id/relink", ctrl.RelinkEquipment, unlink)
		protocols.GET("/:id", ctrl.FindProtocol, view)
	}

	workflows := protocols.Group("/workflows", manage)
	{
		workflows.POST("", ctrl.StartWorkflow)
		workflows.GET("/:sid", ctrl.GetWorkflow)
		workflows.DELETE("/:sid", ctrl.CloseWorkflow)
		workflows.POST("/:sid/reference", ctrl.SelectReference)
		workflows.POST("/:sid/similar", ctrl.FindSimilar)
		workflows.POST("/:sid/reset", ctrl.ResetWorkflow)
		workflows.POST("/:sid/save", ctrl.SaveWorkflow)
		workflows.PUT("/:sid/candidates/:equipmentId", ctrl.ToggleCandidate)
		workflows.GET("/:sid/manual-options", ctrl.GetManualOptions)
		workflows.PUT("/:sid/manual-selection", ctrl.SetManualSelection)
		workflows.POST("/:sid/manual-selection/confirm", ctrl.ConfirmManualAdd)
		workflows.POST("/:sid/steps/generate", ctrl.GenerateSteps)
		workflows.POST("/:sid/steps", ctrl.AddWorkflowStep)
		workflows.PATCH("/:sid/steps/:index", ctrl.UpdateWorkflowStep)
		workflows.DELETE("/:sid/steps/:index", ctrl.DeleteWorkflowStep)
		workflows.POST("/:sid/steps/:index/image", ctrl.UploadWorkflowStepImage)
		workflows.DELETE("/:sid/steps/:index/image", ctrl.RemoveWorkflowStepImage)
		workflows.POST("/:sid/steps/:index/image/generate", ctrl.GenerateWorkflowStepImage)
	}

	editors := protocols.Group("/editors", manage)
	{
		editors.POST("", ctrl.OpenEditor)
		editors.GET("/:sid", ctrl.GetEditor)
		editors.DELETE("/:sid", ctrl.CloseEditor)
		editors.POST("/:sid/save", ctrl.SaveEditor)
		editors.POST("/:sid/steps", ctrl.AddEditorStep)
		editors.PATCH("/:sid/steps/:index", ctrl.UpdateEditorStep)
		editors.DELETE("/:sid/steps/:index", ctrl.DeleteEditorStep)
		editors.POST("/:sid/steps/:index/image", ctrl.UploadEditorStepImage)
		editors.DELETE("/:sid/steps/:index/image", ctrl.RemoveEditorStepImage)
		editors.POST("/:sid/steps/:index/image/generate", ctrl.GenerateEditorStepImage)
	}
}
