/*
 * Copyright (c) 2020 VMware, Inc.
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy of this software and
 * associated documentation files (the "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is furnished to do
 * so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all copies or substantial
 * portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR IMPLIED, INCLUDING BUT
 * NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY,
 * WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 */
package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kcl "github.com/vmware/vmware-go-kcl-multilang/clientlibrary/interfaces"
)

const modifyEvent = `{
  "awsRegion": "us-west-2",
  "dynamodb": {
    "ApproximateCreationDateTime": 1570887011763,
    "Keys": {"id": {"S": "order-1"}},
    "NewImage": {"id": {"S": "order-1"}, "quantity": {"N": "3"}, "tags": {"SS": ["a", "b"]}, "paid": {"BOOL": true}},
    "OldImage": {"id": {"S": "order-1"}, "quantity": {"N": "2"}, "tags": {"SS": ["a"]}, "paid": {"BOOL": false}},
    "SizeBytes": 120
  },
  "eventID": "6b1f4a7c-1d2e-4f3a-9b8c-7d6e5f4a3b2c",
  "eventName": "MODIFY",
  "userIdentity": null,
  "recordFormat": "application/json",
  "tableName": "orders",
  "eventSource": "aws:dynamodb"
}`

const insertEvent = `{
  "awsRegion": "us-west-2",
  "dynamodb": {"Keys": {"id": {"S": "order-2"}}, "NewImage": {"id": {"S": "order-2"}, "quantity": {"N": "1"}}},
  "eventID": "1",
  "eventName": "INSERT",
  "userIdentity": {"type": "Service", "principalId": "dynamodb.amazonaws.com"},
  "recordFormat": "application/json",
  "tableName": "orders",
  "eventSource": "aws:dynamodb"
}`

type order struct {
	ID       string   `dynamodbav:"id"`
	Quantity int      `dynamodbav:"quantity"`
	Tags     []string `dynamodbav:"tags,stringset"`
	Paid     bool     `dynamodbav:"paid"`
}

func TestDecodeDynamoDBModify(t *testing.T) {
	p, err := DecodeDynamoDB(&kcl.Record{Data: []byte(modifyEvent)})
	require.Nil(t, err)

	assert.Equal(t, "us-west-2", p.AwsRegion)
	assert.Equal(t, "MODIFY", p.EventName)
	assert.Equal(t, "orders", p.TableName)
	assert.Equal(t, "aws:dynamodb", p.EventSource)
	assert.Nil(t, p.UserIdentity)
	assert.Equal(t, int64(120), p.DynamoDB.SizeBytes)

	var newItem, oldItem order
	require.Nil(t, p.NewItem(&newItem))
	require.Nil(t, p.OldItem(&oldItem))
	assert.Equal(t, order{ID: "order-1", Quantity: 3, Tags: []string{"a", "b"}, Paid: true}, newItem)
	assert.Equal(t, order{ID: "order-1", Quantity: 2, Tags: []string{"a"}, Paid: false}, oldItem)

	var key struct {
		ID string `dynamodbav:"id"`
	}
	require.Nil(t, p.Key(&key))
	assert.Equal(t, "order-1", key.ID)
}

func TestDecodeDynamoDBInsert(t *testing.T) {
	p, err := DecodeDynamoDB(&kcl.Record{Data: []byte(insertEvent)})
	require.Nil(t, err)

	require.NotNil(t, p.UserIdentity)
	assert.Equal(t, "Service", p.UserIdentity.Type)
	assert.Equal(t, "dynamodb.amazonaws.com", p.UserIdentity.PrincipalID)

	var newItem order
	require.Nil(t, p.NewItem(&newItem))
	assert.Equal(t, 1, newItem.Quantity)

	var oldItem order
	assert.Equal(t, ErrNoImage, p.OldItem(&oldItem))
}

func TestDecodeDynamoDBInvalid(t *testing.T) {
	_, err := DecodeDynamoDB(&kcl.Record{Data: []byte("Hello, this is a test.")})
	assert.NotNil(t, err)
}

func TestJSON(t *testing.T) {
	var v struct {
		EventField string `json:"event_field"`
	}
	require.Nil(t, JSON(&kcl.Record{Data: []byte(`{"event_field":"created"}`)}, &v))
	assert.Equal(t, "created", v.EventField)
}
