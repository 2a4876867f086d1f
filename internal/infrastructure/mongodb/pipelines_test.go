package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
)

func stageNames(p []bson.D) []string {
	out := make([]string, len(p))
	for i, st := range p {
		out[i] = st[0].Key
	}
	return out
}

func TestPopularCoursesPipeline_FiltersBlockedTutorsThenSorts(t *testing.T) {
	p := popularCoursesPipeline()
	assert.Equal(t, []string{"$lookup", "$match", "$project", "$sort"}, stageNames(p))

	match := p[1][0].Value.(bson.D)
	assert.Equal(t, "tutorInfo.status", match[0].Key)
	assert.Equal(t, bson.D{{Key: "$ne", Value: false}}, match[0].Value)

	sort := p[3][0].Value.(bson.D)
	assert.Equal(t, bson.D{{Key: "rating", Value: -1}}, sort)
}

func TestPublicPipelines_HidePurchaseHistory(t *testing.T) {
	hidden := bson.D{{Key: "tutorInfo", Value: 0}, {Key: "purchaseHistory", Value: 0}}
	assert.Equal(t, hidden, popularCoursesPipeline()[2][0].Value)
	assert.Equal(t, hidden, listedCoursesPipeline(nil)[2][0].Value)

	d := courseDetailPipeline(primitive.NewObjectID())
	assert.Equal(t, []string{"$match", "$lookup", "$project"}, stageNames(d))
	assert.Equal(t, bson.D{{Key: "purchaseHistory", Value: 0}}, d[2][0].Value)
}

func TestListedCoursesPipeline_LanguageMatchComesFirst(t *testing.T) {
	p := listedCoursesPipeline(bson.D{{Key: "language", Value: "Go"}})
	require.Len(t, p, 4)
	assert.Equal(t, "$match", p[0][0].Key)
	assert.Equal(t, bson.D{{Key: "language", Value: "Go"}}, p[0][0].Value)

	counted := countPipeline(p)
	assert.Equal(t, "$count", counted[len(counted)-1][0].Key)
}

func TestTutorPopularPipeline_Limit(t *testing.T) {
	tutor := primitive.NewObjectID()
	p := tutorPopularPipeline(tutor, 4)
	assert.Equal(t, []string{"$match", "$sort", "$limit"}, stageNames(p))
	assert.Equal(t, int64(4), p[2][0].Value)

	assert.Len(t, tutorPopularPipeline(tutor, 0), 2)
}

func TestRevenuePipeline_AppliesShare(t *testing.T) {
	p := revenuePipeline(nil, entity.PlatformShare)
	assert.Equal(t, []string{"$unwind", "$group", "$sort"}, stageNames(p))

	group := p[1][0].Value.(bson.D)
	assert.Equal(t, "$purchaseHistory.month", group[0].Value)
	sum := group[1].Value.(bson.D)[0].Value.(bson.D)
	assert.Equal(t, bson.A{"$purchaseHistory.price", 0.05}, sum[0].Value)

	tutor := primitive.NewObjectID()
	p = revenuePipeline(bson.D{{Key: "tutor", Value: tutor}}, entity.TutorShare)
	assert.Equal(t, []string{"$match", "$unwind", "$group", "$sort"}, stageNames(p))
}

func TestNameFilter_EscapesAndAnchors(t *testing.T) {
	f := nameFilter("languagename", "C++")
	re := f[0].Value.(primitive.Regex)
	assert.Equal(t, `^C\+\+$`, re.Pattern)
	assert.Equal(t, "i", re.Options)
}

func TestOID_MalformedIsNotFound(t *testing.T) {
	_, err := oid("nope")
	assert.Error(t, err)
	assert.Equal(t, []string{}, hexes(oids([]string{"bad"})))
}
