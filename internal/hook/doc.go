// Package hook implements typed extension points.
//
// An extension point is a Point[A] token created once with NewPoint. Handlers
// are plain func(A) error values registered for a point under an owner
// marker, a declaring component name, and an order. Invoke runs every
// handler registered for (point, owner) in ascending order, breaking ties by
// component name and then by registration sequence, and stops at the first
// failure.
//
// Points that carry two arguments use Pair[A, B]. A handler that only needs
// the leading argument is adapted with Head:
//
//	hook.MustRegister(reg, pipeline.AndroidProjectModify, pipeline.BuildTools, "ads", 10,
//		hook.Head[*buildctx.Context, *native.AndroidProject](func(bc *buildctx.Context) error {
//			bc.AddLinkAssembly("Ads.Runtime")
//			return nil
//		}))
//
// Registration is closed the first time any point is invoked on a registry:
// the ordered handler lists are computed once and reused for the lifetime of
// the process.
package hook
