// Package smartcut provides an embedded Go client for the smartcut
// take scoring engine backed by Redis. The client wires the analysis
// pipeline, the vector index, and the intent search directly into the
// host process, so no HTTP server is needed.
//
//	client, _ := smartcut.New(ctx,
//	    smartcut.WithRedis("localhost:6379", ""),
//	    smartcut.WithEmbedder(myEmbedder),
//	    smartcut.WithModel("openai", "text-embedding-3-small", 1536),
//	)
//	defer client.Close()
//
//	take, _ := client.Takes().Register(ctx, smartcut.TakeInput{
//	    FileName: "scene12_take03.mp4",
//	    FilePath: "/footage/scene12_take03.mp4",
//	})
//	runID, _ := client.Takes().Analyze(ctx, take.ID)
//
//	results, _ := client.Search().Query(ctx, "hesitant pause before answering", 10, nil)
package smartcut
