// Package chatapproval runs chat based order approvals.
//
// An order is sent to a set of chat recipients who each answer with
// "APPROVE <orderId>" or "REJECT <orderId> [reason]". Every reply is recorded,
// acknowledged in chat and forwarded to the order callback URL. Once all
// recipients have answered the order settles and leaves the active set.
//
// The root Service wires the order store, chat transport, approval engine,
// intake and callback dispatcher from a single Config:
//
//	cfg, _ := chatapproval.LoadConfig(ctx, "chatapproval.yaml")
//	srv, _ := chatapproval.New(ctx, chatapproval.WithConfig(cfg))
//	_ = srv.Start(ctx)
//	defer srv.Shutdown(ctx)
//	handle, _ := srv.CreateOrder(ctx, &intake.Request{...})
package chatapproval
