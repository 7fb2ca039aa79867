package pipeline

import (
	"git.home.luguber.info/inful/pluginlit/internal/buildctx"
	"git.home.luguber.info/inful/pluginlit/internal/hook"
	"git.home.luguber.info/inful/pluginlit/internal/native"
)

// BuildTools owns the extension points raised by the build pipeline.
const BuildTools hook.Owner = "BuildTools"

// Extension points raised by the pipeline stages, in the order a full build
// raises them.
var (
	OnSyncEditorSetting      = hook.NewPoint[*buildctx.Context]("OnSyncEditorSetting")
	PrepareAssetsBeforeBuild = hook.NewPoint[*buildctx.Context]("PrepareAssetsBeforeBuild")
	OnCompileComplete        = hook.NewPoint[*buildctx.Context]("OnCompileComplete")
	AndroidProjectModify     = hook.NewPoint[hook.Pair[*buildctx.Context, *native.AndroidProject]]("AndroidProjectModify")
	IOSProjectModify         = hook.NewPoint[hook.Pair[*buildctx.Context, *native.XcodeProject]]("IOSProjectModify")
	WebGLProjectModify       = hook.NewPoint[hook.Pair[*buildctx.Context, string]]("WebGLProjectModify")
	BuildProjectCompleted    = hook.NewPoint[hook.Pair[*buildctx.Context, string]]("BuildProjectCompleted")
)
