// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/animicaorg/consensus/policy"
)

// serveHTTP exposes read-only introspection over the same consensuscore.Core
// read operations §6 names, grounded on the coinjoin engine's gin route
// layout (internal/api/routes.go): one handler per GET endpoint, JSON bodies,
// no write paths at all.
func serveHTTP(addr string, core *probeCore) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/tip", func(c *gin.Context) {
		hash, height, weight := core.core.Tip()
		c.JSON(200, gin.H{
			"hash":   fmt.Sprintf("%x", hash),
			"height": height,
			"weight": int64(weight),
		})
	})

	r.GET("/theta", func(c *gin.Context) {
		c.JSON(200, gin.H{"theta": int64(core.core.GetTheta())})
	})

	r.GET("/alpha/:type", func(c *gin.Context) {
		t, ok := parseProofType(c.Param("type"))
		if !ok {
			c.JSON(400, gin.H{"error": "unknown proof type"})
			return
		}
		c.JSON(200, gin.H{"type": t.String(), "alpha": int64(core.core.GetAlpha(t))})
	})

	return r.Run(addr)
}

func parseProofType(s string) (policy.ProofType, bool) {
	for _, t := range policy.AllProofTypes {
		if t.String() == s {
			return t, true
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		t := policy.ProofType(n)
		for _, known := range policy.AllProofTypes {
			if known == t {
				return t, true
			}
		}
	}
	return 0, false
}
