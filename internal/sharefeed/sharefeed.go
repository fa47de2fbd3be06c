// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sharefeed publishes ShareReceipt outcomes to Kafka for the
// out-of-scope rewards collaborator, matching spec.md §4.4 ("share
// receipts are surfaced for the rewards collaborator"). Grounded on
// the teacher-pack's teranode validator service, which publishes a
// domain event to a sarama.SyncProducer keyed by a content hash and
// partitioned by its low bytes (services/validator/Validator.go's
// publishToKafka). This package is never on the consensus decision
// path: consensuscore.Core.SubmitBlock returns its Outcome regardless
// of whether a feed is wired, and Publish failures never unwind it.
package sharefeed

import (
	"encoding/binary"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/animicaorg/consensus/codec"
	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/header"
	"github.com/animicaorg/consensus/policy"
)

// Receipt is the wire record published for one ShareReceipt outcome.
type Receipt struct {
	Height     uint64             `cbor:"0,keyasint"`
	HeaderHash header.Hash        `cbor:"1,keyasint"`
	S          fixedpoint.Fixed   `cbor:"2,keyasint"`
	Hu         fixedpoint.Fixed   `cbor:"3,keyasint"`
	Psi        fixedpoint.Fixed   `cbor:"4,keyasint"`
	Nullifiers [][32]byte         `cbor:"5,keyasint"`
	Types      []policy.ProofType `cbor:"6,keyasint"`
	Timestamp  uint64             `cbor:"7,keyasint"`
}

// Producer publishes Receipts to a fixed Kafka topic, partitioning by
// the low bytes of the header hash the same way the teacher's
// validator partitions by txid.
type Producer struct {
	sp         sarama.SyncProducer
	topic      string
	partitions int32
}

// NewProducer wraps an already-configured sarama.SyncProducer. Callers
// build the producer (brokers, acks, compression) the way their
// deployment requires; this package only shapes the message.
func NewProducer(sp sarama.SyncProducer, topic string, partitions int32) *Producer {
	return &Producer{sp: sp, topic: topic, partitions: partitions}
}

// Publish encodes r to canonical CBOR and sends it, keyed by the
// header hash so all receipts for one header land on the same
// partition and preserve relative order.
func (p *Producer) Publish(r Receipt) error {
	body, err := codec.Marshal(codec.CurrentVersion, r)
	if err != nil {
		return fmt.Errorf("sharefeed: encode receipt: %w", err)
	}

	partition := int32(binary.LittleEndian.Uint32(r.HeaderHash[:4]) % uint32(p.partitions))
	_, _, err = p.sp.SendMessage(&sarama.ProducerMessage{
		Topic:     p.topic,
		Partition: partition,
		Key:       sarama.ByteEncoder(r.HeaderHash[:]),
		Value:     sarama.ByteEncoder(body),
	})
	if err != nil {
		return fmt.Errorf("sharefeed: publish: %w", err)
	}
	return nil
}

// Close releases the underlying producer.
func (p *Producer) Close() error {
	return p.sp.Close()
}
