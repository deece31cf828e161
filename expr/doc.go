// Package expr is a small typed expression tree over Go values.
//
// Expressions are built with the DSL in builder.go:
//
//	x := expr.Param[blog.Blog]("x")
//	fn := expr.NewLambda(expr.Chain(x, "Admin.Address.State"), x)
//
// The Extractor turns such an expression into the property paths it reads
// ("Admin.Address.State"), Build turns a path back into an expression, and
// Lambda.Eval runs an expression against live values.
//
// Projections over sequences are expressed with Select and SelectMany:
//
//	// Posts.Comments.Member
//	expr.Select(
//		expr.SelectMany(expr.Prop(x, "Posts"), expr.Fn[*blog.Post]("p", func(p *expr.Parameter) expr.Node {
//			return expr.Prop(p, "Comments")
//		})),
//		expr.Fn[*blog.Comment]("c", func(c *expr.Parameter) expr.Node {
//			return expr.Prop(c, "Member")
//		}),
//	)
package expr
