package db

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/eartrainer/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo keeps items per partition key and pages queries pageSize
// items at a time.
type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items    map[string][]map[string]*dynamodb.AttributeValue
	pageSize int
	queries  int
	fail     bool
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string][]map[string]*dynamodb.AttributeValue{}, pageSize: 2}
}

func (f *fakeDynamo) PutItemWithContext(ctx aws.Context, in *dynamodb.PutItemInput, _ ...request.Option) (*dynamodb.PutItemOutput, error) {
	if f.fail {
		return nil, errors.New("throttled")
	}
	pk := *in.Item["PK"].S
	f.items[pk] = append(f.items[pk], in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) QueryWithContext(ctx aws.Context, in *dynamodb.QueryInput, _ ...request.Option) (*dynamodb.QueryOutput, error) {
	f.queries++
	if f.fail {
		return nil, errors.New("throttled")
	}
	all := f.items[*in.ExpressionAttributeValues[":pk"].S]
	start := 0
	if in.ExclusiveStartKey != nil {
		for i, it := range all {
			if *it["SK"].S == *in.ExclusiveStartKey["SK"].S {
				start = i + 1
			}
		}
	}
	end := start + f.pageSize
	out := &dynamodb.QueryOutput{}
	if end < len(all) {
		out.LastEvaluatedKey = map[string]*dynamodb.AttributeValue{"PK": all[end-1]["PK"], "SK": all[end-1]["SK"]}
	} else {
		end = len(all)
	}
	out.Items = all[start:end]
	return out, nil
}

func TestRecordAndQueryAttempts(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamo()
	p := NewProgress(fake, "eartrainer-progress")
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		a := model.MelodyAttempt{
			MelodyID:   model.MelodyID(1, i+1),
			Timestamp:  t0.Add(time.Duration(i) * time.Second),
			IsFirstTry: i%2 == 0,
			Success:    i%2 == 0,
		}
		if i == 1 {
			a.WrongNotes = []model.WrongNote{{Expected: "E4", Played: "D4", Position: 1}}
		}
		require.NoError(t, p.RecordAttempt(ctx, 1, a))
	}
	require.NoError(t, p.RecordAttempt(ctx, 2, model.MelodyAttempt{MelodyID: "unit2-melody1", Timestamp: t0}))

	got, err := p.Attempts(ctx, 1)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Len(got, 5)
	assert.Equal(3, fake.queries)
	assert.Equal("unit1-melody2", got[1].MelodyID)
	assert.True(got[1].Timestamp.Equal(t0.Add(time.Second)))
	assert.Equal([]model.WrongNote{{Expected: "E4", Played: "D4", Position: 1}}, got[1].WrongNotes)
	assert.True(got[0].Success)
	assert.False(got[1].Success)

	assert.Equal("unit#1", *fake.items["unit#1"][0]["PK"].S)
	assert.Equal("2024-05-01T12:00:00Z#unit1-melody1", *fake.items["unit#1"][0]["SK"].S)
}

func TestErrorsFromDynamo(t *testing.T) {
	fake := newFakeDynamo()
	fake.fail = true
	p := NewProgress(fake, "t")

	assert.Error(t, p.RecordAttempt(context.Background(), 1, model.MelodyAttempt{}))
	_, err := p.Attempts(context.Background(), 1)
	assert.Error(t, err)
}
